package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/leafkeeper/leafkeeper/internal/config"
	"github.com/leafkeeper/leafkeeper/internal/database"
	"github.com/leafkeeper/leafkeeper/internal/services"
)

// Standalone health probe for container orchestration: prints the health
// document and exits nonzero when any dependency is down.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
