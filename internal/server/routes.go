package server

import (
	"io/fs"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cms/internal/app"
	"cms/internal/logger"
	"cms/internal/web"
)

const ReadHeaderTimeout = 5 * time.Second

var log = logger.GetLogger()

// Create creates the HTTP server for a listening on addr.
func Create(addr string, a *app.App) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Router(a),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

// Router wires the site routes. Pages sit behind the session middleware so
// every visitor gets a session cookie; static files, metrics and the health
// check do not.
func Router(a *app.App) http.Handler {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Heartbeat("/healthz"))
	if a.Metrics != nil {
		router.Use(a.Metrics.Middleware)
		router.Handle("/metrics", a.Metrics.Handler())
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Group(func(r chi.Router) {
		r.Use(a.Sessions.Middleware)

		r.Get("/", a.HandleIndex)
		r.Get("/register", a.HandleRegister)
		r.Post("/register", a.HandleRegister)
		r.Get("/login", a.HandleLogin)
		r.Post("/login", a.HandleLogin)
		r.Get("/logout", a.HandleLogout)
		r.Post("/logout", a.HandleLogout)
		r.Get("/admin", a.RequireAuth(a.HandleAdmin))
	})

	router.NotFound(a.HandleNotFound)

	return WithCustomErrors(router, a)
}
