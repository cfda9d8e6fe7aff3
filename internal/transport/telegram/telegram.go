// Package telegram implements the messaging adapter on top of telebot.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"streambot/internal/transport"
)

type Config struct {
	Token  string
	ChatID int64
}

type Adapter struct {
	cfg Config
	log zerolog.Logger
	bot *tele.Bot
}

func New(cfg Config, log zerolog.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	// The bot never consumes updates; no poller is configured and Start()
	// is never called on it. Send/Delete are plain API calls.
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: apiTimeout},
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{cfg: cfg, log: log.With().Str("comp", "telegram").Logger(), bot: b}, nil
}

func (a *Adapter) SendPhoto(ctx context.Context, photoURL, caption string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if opt == nil {
		opt = &transport.SendOptions{}
	}
	if err := ctxErr(ctx); err != nil {
		return transport.MessageRef{}, err
	}

	photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
	sendOpt := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
	}

	msg, err := a.bot.Send(tele.ChatID(a.cfg.ChatID), photo, sendOpt)
	if err != nil {
		return transport.MessageRef{}, err
	}
	a.log.Debug().Int("message_id", msg.ID).Msg("photo sent")
	return transport.MessageRef{ChatID: a.cfg.ChatID, MessageID: msg.ID}, nil
}

func (a *Adapter) DeleteMessage(ctx context.Context, ref transport.MessageRef) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	stored := tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID),
		ChatID:    ref.ChatID,
	}
	if err := a.bot.Delete(stored); err != nil {
		return err
	}
	a.log.Debug().Int("message_id", ref.MessageID).Msg("message deleted")
	return nil
}

// ctxErr is a non-blocking cancellation check; telebot calls themselves do
// not take a context.
func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

var _ transport.Adapter = (*Adapter)(nil)

// apiTimeout bounds a single Telegram API round trip; telebot's default
// HTTP client has no timeout.
const apiTimeout = 15 * time.Second
