package main

import (
	"log"
	"os"

	"cubie-assistant/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running assistant migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}
	log.Println("Database migration completed")
}
