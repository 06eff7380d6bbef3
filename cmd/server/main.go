// Package main - Entry point for the pricing server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/api"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/logging"
	"github.com/Verman94/PriceWebApp/internal/store"
)

const version = "2.0.0"

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	cfgFile := flag.String("config", "", "Config file path")
	flag.Parse()

	if *cfgFile != "" {
		cfg, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}
	cfg := config.Get()

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		logging.Error("open run store", zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	apiServer := api.NewServer(version, st)

	logging.Info("pricing server listening",
		zap.String("addr", *addr),
		zap.String("version", version))

	if err := http.ListenAndServe(*addr, apiServer); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
