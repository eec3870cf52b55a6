package main

import (
	"fmt"
	"os"

	"StockForecast/internal/di"
	"StockForecast/pkg/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "forecast",
		Short:         "Forecast daily closing prices for a stock ticker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "config file path; empty uses defaults")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(newRunCmd(), newPricesCmd(), newStrategiesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// services wires the use cases with logging kept off stdout.
func services() (*di.Services, func(), error) {
	config.LoadDotenv()
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	if verbose {
		cfg.Log.Level = "debug"
	} else if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "error"
	}
	return di.InitializeServices(cfg)
}
