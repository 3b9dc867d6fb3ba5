package app

import (
	"context"
	"fmt"
	"time"

	"github.com/satchel-tui/satchel/internal/agendaui"
	"github.com/satchel-tui/satchel/internal/api"
	"github.com/satchel-tui/satchel/internal/collection"
	"github.com/satchel-tui/satchel/internal/config"
	"github.com/satchel-tui/satchel/internal/session"
	"github.com/satchel-tui/satchel/internal/ui"
)

// Options configure a satchel client.
type Options struct {
	ConfigPath string
	BaseURL    string // overrides the configured backend URL when set
}

const healthTimeout = 3 * time.Second

// RunRecall boots the flashcards TUI until the context is cancelled.
func RunRecall(ctx context.Context, opts Options) error {
	store, client, err := bootstrap(ctx, opts, func(c config.Config) string {
		return c.FlashcardsURL
	})
	if err != nil {
		return err
	}

	decks := collection.NewStore(client)

	return ui.Run(ui.Options{
		Context:    ctx,
		Client:     client,
		Session:    store,
		Collection: decks,
	})
}

// RunAgenda boots the task manager TUI until the context is cancelled.
func RunAgenda(ctx context.Context, opts Options) error {
	store, client, err := bootstrap(ctx, opts, func(c config.Config) string {
		return c.TasksURL
	})
	if err != nil {
		return err
	}

	return agendaui.Run(agendaui.Options{
		Context: ctx,
		Client:  client,
		Session: store,
	})
}

// bootstrap loads configuration, wires the session store to an API client for
// the selected backend, and verifies the backend answers before the UI takes
// over the terminal.
func bootstrap(ctx context.Context, opts Options, pick func(config.Config) string) (*session.Store, *api.Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseURL := pick(cfg)
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}

	store := session.NewStore(cfg.CredsPath)
	client, err := api.NewClient(baseURL, store)
	if err != nil {
		return nil, nil, fmt.Errorf("init api client: %w", err)
	}
	store.Bind(client)

	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := client.Health(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("backend at %s not reachable: %w", baseURL, err)
	}

	return store, client, nil
}
