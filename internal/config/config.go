package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	DatabaseDriver    string // "postgres" (default) or "sqlite"
	DatabaseURL       string
	RedisURL          string
	AdminKey          string // required in X-Admin-Key for balance seeding and stats reset
	LogLevel          string
	AutoMigrate       bool
	CORSAllowedSuffix string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTO_MIGRATE", true)

	env := v.GetString("APP_ENV")
	dbURL := v.GetString("DATABASE_URL")
	if env == "test" && v.GetString("DATABASE_URL_TEST") != "" {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}

	return &Config{
		Env:               env,
		Port:              v.GetString("PORT"),
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:       dbURL,
		RedisURL:          v.GetString("REDIS_URL"),
		AdminKey:          v.GetString("ADMIN_KEY"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),
		CORSAllowedSuffix: v.GetString("CORS_ALLOWED_SUFFIX"),
	}, nil
}
