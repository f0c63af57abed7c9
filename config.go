package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Cache  CacheConfig  `mapstructure:"cache"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type CacheConfig struct {
	// Backend is "redis" or "memory".
	Backend  string        `mapstructure:"backend"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	From       string `mapstructure:"from"`
	Password   string `mapstructure:"password"`
	AdminEmail string `mapstructure:"admin_email"`
}

type AuthConfig struct {
	Issuer   string `mapstructure:"issuer"`
	ClientID string `mapstructure:"client_id"`
	// Disabled leaves the admin routes open. For local development only.
	Disabled bool `mapstructure:"disabled"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/storefront/")

	// Enable environment variable override with STOREFRONT_ prefix
	v.SetEnvPrefix("STOREFRONT")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.dsn", "host=postgres user=postgres password=postgres dbname=storefront port=5432 sslmode=disable")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 300*time.Second)
	v.SetDefault("auth.issuer", "https://accounts.google.com")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, defaults and env cover it.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
