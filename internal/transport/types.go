package transport

import "context"

// MessageRef identifies a message the bot has sent to a destination chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Adapter is the messaging-destination surface the rest of the app talks to.
// The concrete implementation lives in transport/telegram; tests substitute fakes.
type Adapter interface {
	SendPhoto(ctx context.Context, photoURL, caption string, opt *SendOptions) (MessageRef, error)
	DeleteMessage(ctx context.Context, ref MessageRef) error
}
