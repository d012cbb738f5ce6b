package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"cms/internal/app"
	"cms/internal/auth"
	"cms/internal/config"
	"cms/internal/db"
	"cms/internal/metrics"
	"cms/internal/server"
	"cms/internal/session"
	"cms/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	conn, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer conn.Close()

	// The schema only contains IF NOT EXISTS statements so it is safe to
	// run on every startup.
	migrateCtx, cancel := db.WithTimeout(ctx)
	err = db.Migrate(migrateCtx, conn, cfg.DB.Driver)
	cancel()
	if err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg, conn)
	if err != nil {
		return err
	}
	defer closeStore()

	pages, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return err
	}
	tpls, err := server.LoadTemplates(pages)
	if err != nil {
		return fmt.Errorf("failed loading templates: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	a := &app.App{
		Config:    app.Config{SiteRoot: cfg.Site.Root},
		Users:     auth.NewUsers(conn, cfg.DB.Driver),
		Sessions:  sessions,
		Templates: tpls,
		Log:       log,
		Metrics:   metrics.New(reg),
	}

	go session.Sweep(ctx, store, cfg.Session.SweepInterval, log)

	srv := server.Create(cfg.Server.Addr, a)
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSessionStore builds the configured backend and checks it is reachable.
func newSessionStore(ctx context.Context, cfg *config.Config, conn *sql.DB) (session.Store, func(), error) {
	var (
		store   session.Store
		closeFn = func() {}
	)
	switch cfg.Session.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = session.NewRedisStore(client, cfg.Session.RedisPrefix)
		closeFn = func() { _ = client.Close() }
	default:
		store = session.NewSQLStore(conn, cfg.DB.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		closeFn()
		return nil, nil, err
	}
	log.WithField("store", cfg.Session.Store).Info("session store ready")
	return store, closeFn, nil
}
