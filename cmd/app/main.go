package main

import (
	"context"
	"flag"
	"log"
	"os"

	"StockForecast/internal/di"
	"StockForecast/pkg/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file path; empty uses defaults")
	flag.Parse()

	config.LoadDotenv()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	defer cleanup()

	// Run application (blocks until signal)
	if err := app.Run(context.Background()); err != nil {
		log.Printf("app error: %v", err)
		cleanup()
		os.Exit(1)
	}
}
