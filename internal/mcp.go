package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/dagaz/internal/mcpserver"
)

// RunMCP starts the MCP stdio server. Logs go to stderr because stdout is
// the MCP transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, store, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("MCP server starting on stdio",
		slog.String("store_path", cfg.Store.Path),
		slog.String("drafts_dir", cfg.Drafts.Dir))

	return mcpserver.New(svc).ServeStdio()
}
