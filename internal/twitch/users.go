package twitch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nicklaw5/helix/v2"
)

// ResolveUsers maps login names to their numeric user ids. Login keys are
// lower-cased before lookup and in the returned map. Logins unknown to
// Twitch are silently absent from the result; any failed batch request fails
// the whole resolution.
func (c *Client) ResolveUsers(ctx context.Context, logins []string) (map[string]string, error) {
	lowered := make([]string, 0, len(logins))
	for _, l := range logins {
		lowered = append(lowered, strings.ToLower(l))
	}

	ids := make(map[string]string, len(lowered))
	for _, batch := range batches(lowered) {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.helix.SetAppAccessToken(token)
		resp, err := c.helix.GetUsers(&helix.UsersParams{Logins: batch})
		c.mu.Unlock()

		if err != nil {
			return nil, fmt.Errorf("users lookup: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, apiError("users", resp.ResponseCommon)
		}
		for _, u := range resp.Data.Users {
			ids[strings.ToLower(u.Login)] = u.ID
		}
	}
	return ids, nil
}
