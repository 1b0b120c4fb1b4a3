package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	SessionSecret string
	CORSOrigins   string
	SeedData      bool
}

func Load() *Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=zaiko port=5432 sslmode=disable"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		SeedData:      getEnv("SEED_DATA", "") == "true",
	}

	if cfg.SessionSecret == "" {
		log.Fatal("[FATAL] SESSION_SECRET is not set, refusing to start")
	}
	if len(cfg.SessionSecret) < 32 {
		log.Fatal("[FATAL] SESSION_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=zaiko port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
