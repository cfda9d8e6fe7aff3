// Package twitch wraps the Helix API: app-token lifecycle, login→id
// resolution, and live-stream lookups. Requests that take more identifiers
// than the API allows per call are split into batches transparently.
package twitch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"
	"github.com/rs/zerolog"
)

// maxBatch is the Helix per-request identifier limit for both the users and
// streams endpoints.
const maxBatch = 100

// tokenSource yields a valid bearer token before every Helix call.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client wraps a helix.Client. The mutex covers the set-token-then-call
// pair, since the token is client-level state on the helix side.
type Client struct {
	mu     sync.Mutex
	helix  *helix.Client
	tokens tokenSource
	log    zerolog.Logger
}

func NewClient(clientID string, tokens tokenSource, log zerolog.Logger) (*Client, error) {
	hc, err := helix.NewClient(&helix.Options{
		ClientID:   clientID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create helix client: %w", err)
	}
	return &Client{
		helix:  hc,
		tokens: tokens,
		log:    log.With().Str("comp", "twitch").Logger(),
	}, nil
}

// apiError maps a non-success helix response onto the error taxonomy.
func apiError(endpoint string, rc helix.ResponseCommon) *APIError {
	body := rc.ErrorMessage
	if body == "" {
		body = rc.Error
	}
	return &APIError{Endpoint: endpoint, Status: rc.StatusCode, Body: body}
}

// batches splits values into chunks of at most maxBatch, preserving order.
func batches(values []string) [][]string {
	var out [][]string
	for len(values) > maxBatch {
		out = append(out, values[:maxBatch])
		values = values[maxBatch:]
	}
	if len(values) > 0 {
		out = append(out, values)
	}
	return out
}
