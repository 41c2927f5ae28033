package main

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config is read once at startup; the signing secret is immutable for the
// process lifetime.
type Config struct {
	HTTPAddr  string
	BaseURL   string
	JWTSecret string
	TokenTTL  time.Duration
	DBDSN     string
	RedisAddr string
}

func loadConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8081")
	v.SetDefault("BASE_URL", "http://localhost:8081")
	v.SetDefault("JWT_TTL_MS", int64(86400000)) // 24h

	cfg := Config{
		HTTPAddr:  v.GetString("HTTP_ADDR"),
		BaseURL:   v.GetString("BASE_URL"),
		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  time.Duration(v.GetInt64("JWT_TTL_MS")) * time.Millisecond,
		DBDSN:     v.GetString("DB_DSN"),
		RedisAddr: v.GetString("REDIS_ADDR"),
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.DBDSN == "" {
		return cfg, errors.New("DB_DSN is required")
	}
	if cfg.TokenTTL <= 0 {
		return cfg, errors.New("JWT_TTL_MS must be positive")
	}
	return cfg, nil
}
