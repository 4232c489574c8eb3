// Package app wires the engine together and boots the UI.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mpelle/stockwell/internal/catalog"
	"github.com/mpelle/stockwell/internal/config"
	"github.com/mpelle/stockwell/internal/draft"
	"github.com/mpelle/stockwell/internal/fetch"
	"github.com/mpelle/stockwell/internal/logging"
	"github.com/mpelle/stockwell/internal/mutate"
	"github.com/mpelle/stockwell/internal/query"
	"github.com/mpelle/stockwell/internal/state"
	"github.com/mpelle/stockwell/internal/ui"
	"github.com/mpelle/stockwell/internal/validate"
)

// Options configure the Stockwell application.
type Options struct {
	ConfigPath string
	PageSize   int // zero uses the configured value
}

// Run boots the Stockwell TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.LogLevel)

	client, err := catalog.NewClient(cfg.APIBase, func() string { return cfg.APIToken })
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	store := state.NewStore()
	drafts := draft.NewStore(cfg.DraftDir, log)
	validator := validate.New()

	relay := ui.NewRelay()
	fetcher := fetch.New(client, store, relay, log)
	coord := mutate.New(client, store, drafts, relay, log)

	pageSize := cfg.PageSize
	if opts.PageSize > 0 {
		pageSize = opts.PageSize
	}
	queries := query.NewManager(query.Default(pageSize), cfg.SearchDebounce(), relay.QueryChanged)

	log.Info().Str("api_base", cfg.APIBase).Int("page_size", pageSize).Msg("stockwell starting")

	return ui.Run(ui.Options{
		Context:     ctx,
		Store:       store,
		Fetcher:     fetcher,
		Coordinator: coord,
		Queries:     queries,
		Drafts:      drafts,
		Validator:   validator,
		Relay:       relay,
		Autosave:    cfg.AutosaveDebounce(),
		SavedDecay:  0, // session default
		Log:         log,
	})
}
