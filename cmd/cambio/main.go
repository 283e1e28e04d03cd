package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jrv/cambio/internal/config"
	"github.com/jrv/cambio/internal/history"
	"github.com/jrv/cambio/internal/logging"
	"github.com/jrv/cambio/internal/rates"
	"github.com/jrv/cambio/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Path)

	client := rates.NewClient(cfg.API, logger)

	var ledger tui.HistoryStore
	if cfg.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
			log.Fatalf("mkdir history dir: %v", err)
		}
		if err := history.RunMigrations(cfg.History.Path); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			log.Fatalf("open history db: %v", err)
		}
		defer db.Close()
		ledger = history.NewRepo(db)
	}

	p := tea.NewProgram(tui.New(ctx, cfg, client, ledger, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
