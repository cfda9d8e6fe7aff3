package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"streambot/internal/retention"
	"streambot/internal/transport"
	"streambot/internal/twitch"
)

type fakeAdapter struct {
	sendErr  error
	lastURL  string
	lastText string
	nextID   int
}

func (f *fakeAdapter) SendPhoto(ctx context.Context, photoURL, caption string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if f.sendErr != nil {
		return transport.MessageRef{}, f.sendErr
	}
	f.lastURL = photoURL
	f.lastText = caption
	f.nextID++
	return transport.MessageRef{ChatID: 7, MessageID: f.nextID}, nil
}

func (f *fakeAdapter) DeleteMessage(ctx context.Context, ref transport.MessageRef) error {
	return nil
}

type fakeLedger struct {
	records []retention.SentMessage
}

func (f *fakeLedger) Record(m retention.SentMessage) { f.records = append(f.records, m) }

func TestDispatchRecordsSentMessage(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	adapter := &fakeAdapter{}
	ledger := &fakeLedger{}
	d := NewDispatcher(adapter, ledger, clock, zerolog.Nop())

	ok := d.Dispatch(context.Background(), twitch.Stream{
		UserName:     "Alice",
		UserLogin:    "alice",
		ThumbnailURL: "https://cdn/x-{width}x{height}.jpg",
	})
	require.True(t, ok)
	require.Equal(t, "https://cdn/x-1280x720.jpg", adapter.lastURL)
	require.Len(t, ledger.records, 1)
	require.Equal(t, transport.MessageRef{ChatID: 7, MessageID: 1}, ledger.records[0].Ref)
	require.Equal(t, clock.Now(), ledger.records[0].SentAt)
}

func TestDispatchFailureRecordsNothing(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{sendErr: errors.New("telegram down")}
	ledger := &fakeLedger{}
	d := NewDispatcher(adapter, ledger, clockwork.NewFakeClock(), zerolog.Nop())

	ok := d.Dispatch(context.Background(), twitch.Stream{UserLogin: "alice"})
	require.False(t, ok)
	require.Empty(t, ledger.records)
}
