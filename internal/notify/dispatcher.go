// Package notify formats live-transition notifications and sends them to
// the messaging destination.
package notify

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"streambot/internal/retention"
	"streambot/internal/transport"
	"streambot/internal/twitch"
)

// recorder is the slice of the retention ledger the dispatcher needs.
type recorder interface {
	Record(m retention.SentMessage)
}

type Dispatcher struct {
	adapter transport.Adapter
	ledger  recorder
	limiter *rate.Limiter
	clock   clockwork.Clock
	log     zerolog.Logger
}

func NewDispatcher(adapter transport.Adapter, ledger recorder, clock clockwork.Clock, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		adapter: adapter,
		ledger:  ledger,
		// Telegram allows ~30 messages/s per bot; stay well under it.
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		clock:   clock,
		log:     log.With().Str("comp", "notify").Logger(),
	}
}

// Dispatch sends one live notification. On success the sent message is
// recorded in the ledger and true is returned. Every failure is non-fatal:
// it is logged, nothing is recorded, and the transition is never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, st twitch.Stream) bool {
	if err := d.limiter.Wait(ctx); err != nil {
		d.log.Warn().Err(err).Str("login", st.UserLogin).Msg("send aborted")
		return false
	}

	ref, err := d.adapter.SendPhoto(ctx, thumbnailURL(st.ThumbnailURL), formatCaption(st), &transport.SendOptions{
		ParseMode: "HTML",
	})
	if err != nil {
		d.log.Warn().Err(err).Str("login", st.UserLogin).Msg("notification send failed")
		return false
	}

	d.ledger.Record(retention.SentMessage{Ref: ref, SentAt: d.clock.Now()})
	d.log.Info().
		Str("login", st.UserLogin).
		Int("viewers", st.ViewerCount).
		Int("message_id", ref.MessageID).
		Msg("live notification sent")
	return true
}
