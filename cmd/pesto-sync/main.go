package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pesto/remittance-sync/pkg/app"
	"github.com/pesto/remittance-sync/pkg/app/api"
	"github.com/pesto/remittance-sync/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults to $"+config.EnvConfigPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = api.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server stopped with error: %v\n", err)
		os.Exit(1)
	}
}
