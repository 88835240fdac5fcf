package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/johnmiko/crib-back/cmd/cribbage/shared"
	"github.com/johnmiko/crib-back/internal/server"
	"github.com/johnmiko/crib-back/internal/stats"
)

// ServeCmd runs the HTTP and websocket API.
type ServeCmd struct {
	Addr       string        `kong:"default=':8000',help='Server address'"`
	Debug      bool          `kong:"help='Enable debug logging'"`
	DB         string        `kong:"default='cribbage.db',help='SQLite path for game results (empty disables recording)'"`
	SessionTTL time.Duration `kong:"default='24h',help='Idle session lifetime (0 keeps sessions forever)'"`
}

func (c *ServeCmd) Run() error {
	logger := log.New(os.Stderr)
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	var results *stats.Store
	if c.DB != "" {
		var err error
		results, err = stats.Open(c.DB)
		if err != nil {
			return err
		}
		defer results.Close()
		logger.Info("recording results", "db", c.DB)
	}

	store := server.NewStore(quartz.NewReal(), c.SessionTTL, logger)
	hub := server.NewHub(logger)
	srv := server.NewServer(c.Addr, store, hub, results, logger)

	ctx := shared.SetupSignalHandler(logger)
	logger.Info("starting cribbage server", "addr", c.Addr, "session_ttl", c.SessionTTL)
	return srv.Start(ctx)
}
