package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"subbazar.com/app/internal/config"
	apphttp "subbazar.com/app/internal/http"
	"subbazar.com/app/internal/shared/dbconn"
	"subbazar.com/app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	scopedDB, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Separate handle for the elevated credential. With a single-credential
	// deployment both DSNs match and this is just a second pool.
	trustedDB, err := gorm.Open(mysql.Open(cfg.ServiceDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database (service credential): %v", err)
	}

	files, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("storage configuration error: %v", err)
	}
	logger.Info("storage ready", "driver", files.Driver)

	r := apphttp.NewRouter(logger, cfg, dbconn.NewScoped(scopedDB), dbconn.NewTrusted(trustedDB), files.Storage)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
