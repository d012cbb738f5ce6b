package config

import "time"

// Config holds the configuration of the application. Use Load to build one
// from defaults, an optional YAML file, a .env file and CMS_ environment
// variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Site    SiteConfig    `mapstructure:"site"`
	Session SessionConfig `mapstructure:"session"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// SiteConfig describes the deployed site. Root is the absolute base URL
// clients are sent back to after logging out.
type SiteConfig struct {
	Root string `mapstructure:"root" validate:"required,url"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name" validate:"required"`
	// TTL is how long a session lives without being renewed.
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Secure bool          `mapstructure:"secure"`
	// Store selects the backend: "sql" keeps sessions next to the users
	// table, "redis" uses the Redis settings below.
	Store         string        `mapstructure:"store" validate:"oneof=sql redis"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gte=0"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite3 postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
