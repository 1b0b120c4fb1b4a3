package main

import (
	"log"

	"zaiko-backend/internal/config"
	"zaiko-backend/internal/database"
	"zaiko-backend/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := server.New(cfg)

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
