package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"socialfeed/internal/bucket"
	"socialfeed/internal/config"
	"socialfeed/internal/content"
	"socialfeed/internal/gateway"
	"socialfeed/internal/normalize"
	"socialfeed/internal/rss"
	"socialfeed/internal/storage"
)

// app holds the collaborators shared by all commands.
type app struct {
	out     io.Writer
	errOut  io.Writer
	jsonOut bool

	cfg     *config.Config
	log     *slog.Logger
	store   *storage.SQLite
	content *content.Service
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.log = newLogger(cfg.SlogLevel(), a.errOut)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	a.store = store

	httpClient := gateway.NewHTTPClient(cfg.HTTPTimeout)
	api := gateway.New(cfg.APIBaseURL, gateway.StaticToken(cfg.AccessToken), httpClient, a.log)

	var resolver normalize.URLResolver
	if cfg.StoragePublicURL != "" {
		resolver = bucket.NewResolver(cfg.StoragePublicURL)
	}
	norm := normalize.New(resolver, a.log)

	a.content = content.New(api, norm, store, rss.New(httpClient), a.log)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("close database", "error", err)
		}
		a.store = nil
	}
}

func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
