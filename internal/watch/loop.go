// Package watch runs the poll loop: fetch the live set, detect offline→live
// transitions, hand them to the dispatcher.
package watch

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"streambot/internal/twitch"
)

// MinInterval is the floor for the poll interval regardless of configuration.
const MinInterval = 5 * time.Second

type liveFetcher interface {
	LiveStreams(ctx context.Context, ids []string) (map[string]twitch.Stream, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, st twitch.Stream) bool
}

// credentials is the recovery hook used on fetch errors: dropping the token
// forces a fresh grant on the next tick.
type credentials interface {
	Invalidate()
}

// Loop polls the live set for a fixed list of user ids on a fixed interval.
// prev holds "was live as of the last tick" per id and is the sole piece of
// state behind edge detection; it is updated every tick regardless of
// dispatch outcome, so a sighting is never notified twice.
type Loop struct {
	fetcher    liveFetcher
	dispatcher dispatcher
	creds      credentials
	clock      clockwork.Clock
	log        zerolog.Logger

	ids      []string
	interval time.Duration
	prev     map[string]bool
}

func New(fetcher liveFetcher, dispatcher dispatcher, creds credentials, ids []string, interval time.Duration, clock clockwork.Clock, log zerolog.Logger) *Loop {
	if interval < MinInterval {
		interval = MinInterval
	}
	prev := make(map[string]bool, len(ids))
	for _, id := range ids {
		prev[id] = false
	}
	return &Loop{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		creds:      creds,
		clock:      clock,
		log:        log.With().Str("comp", "watch").Logger(),
		ids:        ids,
		interval:   interval,
		prev:       prev,
	}
}

// Run ticks until ctx is cancelled. An in-flight tick always completes
// before the loop exits. Run never returns an error from a tick; upstream
// failures are logged and retried on the next interval.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info().Dur("interval", l.interval).Int("accounts", len(l.ids)).Msg("polling started")
	for {
		l.tick(ctx)
		select {
		case <-ctx.Done():
			l.log.Info().Msg("polling stopped")
			return
		case <-l.clock.After(l.interval):
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	live, err := l.fetcher.LiveStreams(ctx, l.ids)
	if err != nil {
		// Sole reconnection strategy: drop the credential so the next tick
		// starts with a fresh grant, then wait out the interval.
		l.log.Error().Err(err).Msg("live set fetch failed")
		l.creds.Invalidate()
		return
	}

	for _, id := range l.ids {
		st, isLive := live[id]
		if isLive && !l.prev[id] {
			l.dispatcher.Dispatch(ctx, st)
		}
		// Not conditioned on dispatch success: a transient sighting must not
		// be re-notified even when the send itself failed.
		l.prev[id] = isLive
	}
}
