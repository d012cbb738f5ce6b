package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"cms/internal/logger"
)

var log = logger.GetLogger()

// EnvPrefix namespaces the environment variables read by Load, e.g.
// CMS_SITE_ROOT overrides site.root.
const EnvPrefix = "CMS"

// Load reads the configuration. If configFile is empty a config.yaml in the
// working directory is used when present; otherwise the defaults apply.
// Environment variables take precedence over the file.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loadDotEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Debug("no config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Site:   SiteConfig{Root: "http://localhost:8080/"},
		Session: SessionConfig{
			CookieName:    "cms_session",
			TTL:           7 * 24 * time.Hour,
			Store:         "sql",
			RedisPrefix:   "cms:sess",
			SweepInterval: 10 * time.Minute,
		},
		DB:    DBConfig{Driver: "sqlite3", DSN: "./data/cms.db"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("site.root", d.Site.Root)
	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.secure", d.Session.Secure)
	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.redis_prefix", d.Session.RedisPrefix)
	v.SetDefault("session.sweep_interval", d.Session.SweepInterval)
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.dsn", d.DB.DSN)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("log.level", d.Log.Level)
}

// loadDotEnv loads environment variables from a .env file if there is one.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// Validate checks struct constraints and the few rules that span sections.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Session.Store == "redis" && c.Redis.Addr == "" {
		return errors.New("invalid config: session.store is redis but redis.addr is empty")
	}
	return nil
}
