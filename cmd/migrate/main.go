package main

import (
	"context"
	"log"
	"os"

	"taskhub/internal/config"
	"taskhub/internal/db"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "config.yaml", "path to the YAML config file")
	schemaPath := pflag.String("schema", "migrations/001_initial_schema.sql", "SQL file to apply")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("Migrations apply to postgres only; %s creates its schema on open", cfg.Database.Driver)
	}

	// Connect to database
	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer database.Close()

	// Read and execute migration file
	migration, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("Error reading migration file: %v", err)
	}

	if err := database.Migrate(context.Background(), string(migration)); err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.Println("Migration completed successfully")
}
