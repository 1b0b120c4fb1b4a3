package database

import (
	"log"

	"zaiko-backend/internal/config"
	"zaiko-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if cfg.SeedData {
		if err := Seed(DB); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	log.Println("Database connected. Migration done.")
}

// Migrate creates the schema, including the unique index on stocks.name and
// the storehouse foreign key that back the handler-level validation checks.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Storehouse{},
		&models.Stock{},
		&models.StockFile{},
		&models.Session{},
	)
}
