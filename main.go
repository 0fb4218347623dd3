package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/MuazAshraf/pharmacy-pos/internal/api"
	"github.com/MuazAshraf/pharmacy-pos/internal/config"
	"github.com/MuazAshraf/pharmacy-pos/internal/database"
	"github.com/MuazAshraf/pharmacy-pos/internal/migrations"
	"github.com/MuazAshraf/pharmacy-pos/internal/store"
	"github.com/MuazAshraf/pharmacy-pos/internal/store/memory"
	"github.com/MuazAshraf/pharmacy-pos/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	var st store.Store
	if cfg.DatabaseDSN == "" {
		log.Println("DATABASE_DSN not set, using in-memory store with demo data")
		st = memory.NewSeeded()
	} else {
		db := database.Connect(cfg.DatabaseDSN)
		defer db.Close()
		migrations.Run(db)
		st = postgres.New(db)
	}

	handler := api.New(st, cfg.Secret, cfg.AllowedOrigin)

	log.Printf("pharmacy POS server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
