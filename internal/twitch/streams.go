package twitch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nicklaw5/helix/v2"
)

// Stream is one live broadcast as reported by the streams endpoint. It only
// lives for the duration of one poll tick's dispatch.
type Stream struct {
	UserID       string
	UserName     string
	UserLogin    string
	Title        string
	GameName     string
	ViewerCount  int
	StartedAt    time.Time
	ThumbnailURL string
}

// LiveStreams returns the subset of the given user ids that are currently
// broadcasting, keyed by user id. Ids absent from the result are offline.
func (c *Client) LiveStreams(ctx context.Context, ids []string) (map[string]Stream, error) {
	if len(ids) == 0 {
		return map[string]Stream{}, nil
	}

	live := make(map[string]Stream)
	for _, batch := range batches(ids) {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.helix.SetAppAccessToken(token)
		// First defaults to 20 on the helix side; ask for the whole batch.
		resp, err := c.helix.GetStreams(&helix.StreamsParams{UserIDs: batch, First: len(batch)})
		c.mu.Unlock()

		if err != nil {
			return nil, fmt.Errorf("streams lookup: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, apiError("streams", resp.ResponseCommon)
		}
		for _, hs := range resp.Data.Streams {
			live[hs.UserID] = Stream{
				UserID:       hs.UserID,
				UserName:     hs.UserName,
				UserLogin:    hs.UserLogin,
				Title:        hs.Title,
				GameName:     hs.GameName,
				ViewerCount:  hs.ViewerCount,
				StartedAt:    hs.StartedAt,
				ThumbnailURL: hs.ThumbnailURL,
			}
		}
	}
	return live, nil
}
