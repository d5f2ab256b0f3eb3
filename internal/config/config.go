// Package config содержит логику чтения конфигурации сервиса доставки еды.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса доставки еды.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	DatabaseURI     string `env:"DATABASE_URI"`
	GeocoderAddress string `env:"GEOCODER_ADDRESS"`
	GeocoderAPIKey  string `env:"GEOCODER_API_KEY"`
	AuthSecret      string `env:"AUTH_SECRET"`
	AllowedOrigin   string `env:"ALLOWED_ORIGIN"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envGeocoderAddress := cfg.GeocoderAddress
	envGeocoderAPIKey := cfg.GeocoderAPIKey
	envAuthSecret := cfg.AuthSecret
	envAllowedOrigin := cfg.AllowedOrigin

	flag.StringVar(&cfg.RunAddress, "a", "localhost:5000", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.GeocoderAddress, "g", "https://api.opencagedata.com", "reverse geocoding service address")
	flag.StringVar(&cfg.GeocoderAPIKey, "k", "", "reverse geocoding service API key")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret key for signing auth tokens")
	flag.StringVar(&cfg.AllowedOrigin, "o", "http://localhost:3000", "allowed CORS origin for the web client")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envGeocoderAddress != "" {
		cfg.GeocoderAddress = envGeocoderAddress
	}
	if envGeocoderAPIKey != "" {
		cfg.GeocoderAPIKey = envGeocoderAPIKey
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}
	if envAllowedOrigin != "" {
		cfg.AllowedOrigin = envAllowedOrigin
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:5000"
	}

	return cfg, nil
}
