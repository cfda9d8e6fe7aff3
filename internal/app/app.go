// Package app wires the components together and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"streambot/internal/config"
	"streambot/internal/notify"
	"streambot/internal/retention"
	"streambot/internal/transport/telegram"
	"streambot/internal/twitch"
	"streambot/internal/watch"
)

type App struct {
	cfg   *config.Config
	log   zerolog.Logger
	clock clockwork.Clock

	tokens     *twitch.TokenManager
	client     *twitch.Client
	adapter    *telegram.Adapter
	ledger     *retention.Ledger
	dispatcher *notify.Dispatcher
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	clock := clockwork.NewRealClock()

	adapter, err := telegram.New(telegram.Config{
		Token:  cfg.Telegram.Token,
		ChatID: cfg.Telegram.ChatID,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("telegram adapter: %w", err)
	}

	tokens := twitch.NewTokenManager(cfg.Twitch.ClientID, cfg.Twitch.ClientSecret, clock, log)
	client, err := twitch.NewClient(cfg.Twitch.ClientID, tokens, log)
	if err != nil {
		return nil, fmt.Errorf("twitch client: %w", err)
	}
	ledger := retention.NewLedger(adapter, retention.DefaultWindow, clock, log)

	return &App{
		cfg:        cfg,
		log:        log,
		clock:      clock,
		tokens:     tokens,
		client:     client,
		adapter:    adapter,
		ledger:     ledger,
		dispatcher: notify.NewDispatcher(adapter, ledger, clock, log),
	}, nil
}

// Run resolves the configured logins once, starts the retention sweep, and
// polls until ctx is cancelled. A resolution that yields zero accounts is a
// startup failure.
func (a *App) Run(ctx context.Context) error {
	logins := a.cfg.Twitch.Logins
	if len(logins) == 0 {
		return fmt.Errorf("no logins configured")
	}

	resolved, err := a.client.ResolveUsers(ctx, logins)
	if err != nil {
		return fmt.Errorf("resolve logins: %w", err)
	}

	// Keep configured order; logins that did not resolve are dropped for
	// good (never retried).
	ids := make([]string, 0, len(resolved))
	for _, login := range logins {
		key := strings.ToLower(login)
		id, ok := resolved[key]
		if !ok {
			a.log.Warn().Str("login", key).Msg("login not found on twitch; dropped")
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return fmt.Errorf("none of the configured logins resolved")
	}
	a.log.Info().Int("accounts", len(ids)).Msg("accounts resolved")

	a.ledger.Start(ctx)
	defer a.ledger.Stop()

	loop := watch.New(a.client, a.dispatcher, a.tokens, ids, a.cfg.PollInterval(), a.clock, a.log)
	loop.Run(ctx)
	return nil
}
