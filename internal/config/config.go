package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// Seed values for the threshold config row; ignored once the row exists.
	HighThreshold   int
	MediumThreshold int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:           os.Getenv("DB_DSN"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		HighThreshold:   envInt("HIGH_THRESHOLD", 11),
		MediumThreshold: envInt("MEDIUM_THRESHOLD", 6),
	}

	if cfg.DBDSN == "" {
		log.Fatal().Msg("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is not set")
	}

	return cfg
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatal().Str("key", key).Str("value", raw).Msg("invalid integer in environment")
	}
	return v
}
