// Package main provides the entry point for the Taskwire TUI application.
//
// Taskwire is a terminal client for a shared task tracker. Edits apply
// locally the instant they are made and reconcile with the backend in the
// background; the list stays responsive even while requests are in flight.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/app"
	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	lock, err := storage.AcquireLock(cfg.Data.Dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Another taskwire instance is already running")
		os.Exit(1)
	}
	defer lock.Unlock()

	db, err := storage.Open(cfg.Data.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	client := api.NewClient(cfg.Server.BaseURL, http.DefaultClient, logger)

	model := app.New(cfg, client, db, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger opens the configured log file. Logging to stderr would corrupt
// the alternate screen, so everything goes to disk.
func newLogger(cfg *config.Config) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}
