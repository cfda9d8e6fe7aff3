// Package retention keeps a ledger of sent notification messages and
// deletes them at the destination once they outlive the retention window.
package retention

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"streambot/internal/transport"
)

// DefaultWindow is both the sweep period and the message retention window.
const DefaultWindow = 3 * time.Hour

// SentMessage is one ledger entry: a message the bot sent, and when.
type SentMessage struct {
	Ref    transport.MessageRef
	SentAt time.Time
}

// deleter is the slice of the transport adapter the sweep needs.
type deleter interface {
	DeleteMessage(ctx context.Context, ref transport.MessageRef) error
}

// Ledger owns the sent-message records. Record() appends; a background sweep
// periodically deletes records older than the window at the destination.
// A record is dropped from the ledger after the deletion attempt whether or
// not it succeeded; a failed deletion leaves the message behind for good.
type Ledger struct {
	mu      sync.Mutex
	records []SentMessage

	adapter deleter
	clock   clockwork.Clock
	log     zerolog.Logger
	window  time.Duration

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewLedger(adapter deleter, window time.Duration, clock clockwork.Clock, log zerolog.Logger) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Ledger{
		adapter: adapter,
		clock:   clock,
		log:     log.With().Str("comp", "retention").Logger(),
		window:  window,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Record appends a sent message to the ledger. Callers must not insert the
// same (chat, message) pair twice.
func (l *Ledger) Record(m SentMessage) {
	l.mu.Lock()
	l.records = append(l.records, m)
	l.mu.Unlock()
}

// Len reports the number of records currently held.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Start launches the background sweep. It runs until Stop is called or ctx
// is cancelled. Starting twice is a no-op.
func (l *Ledger) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		ticker := l.clock.NewTicker(l.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.stop:
				return
			case <-ticker.Chan():
				l.Sweep(ctx)
			}
		}
	}()
}

// Stop cancels the sweep and waits for it to exit. Stopping a ledger that
// was never started returns immediately.
func (l *Ledger) Stop() {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return
	}
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

// Sweep deletes every record whose SentAt is at or past the retention
// cutoff. Deletion failures are logged and not retried; the record is
// removed either way so a broken message never wedges the ledger.
func (l *Ledger) Sweep(ctx context.Context) {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	var due, keep []SentMessage
	for _, m := range l.records {
		if !m.SentAt.After(cutoff) {
			due = append(due, m)
		} else {
			keep = append(keep, m)
		}
	}
	l.records = keep
	l.mu.Unlock()

	if len(due) == 0 {
		return
	}

	for _, m := range due {
		if err := l.adapter.DeleteMessage(ctx, m.Ref); err != nil {
			l.log.Warn().Err(err).Int("message_id", m.Ref.MessageID).Msg("delete failed; dropping record anyway")
			continue
		}
		l.log.Debug().Int("message_id", m.Ref.MessageID).Msg("expired notification deleted")
	}
}
