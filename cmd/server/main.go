package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"expensedash/internal/app/server"
	"expensedash/internal/platform/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "err", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize application", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	slog.Info("expense dashboard listening",
		"addr", cfg.Addr,
		"backend", cfg.BackendBaseURL,
		"env", cfg.Environment,
	)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
