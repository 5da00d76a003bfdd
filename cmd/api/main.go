package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/minishare/backend/internal/config"
	"github.com/minishare/backend/internal/db"
	"github.com/minishare/backend/internal/server"
	"github.com/minishare/backend/internal/storage"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	var store storage.Service
	if cfg.StorageBucket != "" {
		store, err = storage.NewGCSStorage(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Fatalf("gcs init error: %v", err)
		}
	} else {
		store, err = storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			log.Fatalf("local storage init error: %v", err)
		}
	}

	srv := server.New(conn, cfg, store, gitSHA, buildTime)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
