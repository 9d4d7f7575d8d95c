package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/hiermatch/internal/config"
	"github.com/agenthands/hiermatch/internal/core"
	"github.com/agenthands/hiermatch/internal/driver"
	"github.com/agenthands/hiermatch/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Comparing documents works without a store; snapshots need Memgraph.
	var d driver.GraphDriver
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	md, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
	cancel()
	if err != nil {
		log.Printf("Warning: snapshot store unavailable: %v", err)
	} else {
		defer md.Close(context.Background())
		if err := md.BuildIndices(context.Background()); err != nil {
			log.Printf("Warning: failed to build indices: %v", err)
		}
		d = md
	}

	svc, err := core.NewService(d, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	r := server.NewServer(svc).SetupRouter()

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
