package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"knowmark/internal/api"
	"knowmark/internal/config"
	"knowmark/internal/db"
	redisdb "knowmark/internal/redis"
	"knowmark/internal/security"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg, err := config.LoadConfig(envOr("CONFIG_PATH", "config.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Blocking: generates the salt and a 4096-bit RSA pair on first
	// boot. Running without persisted key material would invalidate
	// every hash and token on restart, so failure here is fatal.
	sec, err := security.Load(cfg.SecurityDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Security init error: %v\n", err)
		os.Exit(1)
	}

	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	rdb := redisdb.NewClient(cfg)

	r := api.SetupRouter(cfg, sec, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
