// Command migrate applies the schema and seed data without starting the
// server. Useful for provisioning a fresh database.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"trashspot-backend/internal/config"
	"trashspot-backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedAreas(db); err != nil {
		log.Fatalf("Area seeding failed: %v", err)
	}
	if err := database.SeedTrashBins(db); err != nil {
		log.Fatalf("Trash bin seeding failed: %v", err)
	}
	if err := database.SeedAdminUser(db, "admin@trashspot.jp", "admin123"); err != nil {
		log.Fatalf("Admin user seeding failed: %v", err)
	}

	var bins, areas int
	if err := db.Get(&bins, `SELECT COUNT(*) FROM trash_bins`); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}
	if err := db.Get(&areas, `SELECT COUNT(*) FROM areas`); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Areas:       %d\n", areas)
	fmt.Printf("Trash bins:  %d\n", bins)
	fmt.Println("============================================================")
}
