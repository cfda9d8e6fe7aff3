package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const defaultTokenURL = "https://id.twitch.tv/oauth2/token"

// expiryMargin is subtracted from the issued lifetime so a token is never
// used right at its expiry edge. It doubles as the floor for tokens issued
// with a shorter lifetime than the margin itself.
const expiryMargin = 300 * time.Second

// TokenManager owns the app access token for the Helix API. All callers go
// through Token(); a refresh happens lazily when no token is held or the
// held one has expired. The mutex serializes refreshes so concurrent callers
// never issue duplicate grants.
type TokenManager struct {
	mu sync.Mutex

	http     *http.Client
	clock    clockwork.Clock
	log      zerolog.Logger
	tokenURL string

	clientID     string
	clientSecret string

	token     string
	expiresAt time.Time
}

func NewTokenManager(clientID, clientSecret string, clock clockwork.Clock, log zerolog.Logger) *TokenManager {
	return &TokenManager{
		http:         &http.Client{Timeout: 10 * time.Second},
		clock:        clock,
		log:          log.With().Str("comp", "twitch.token").Logger(),
		tokenURL:     defaultTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Token returns a bearer token that is valid for at least the expiry margin,
// refreshing it against the oauth endpoint when needed.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != "" && tm.clock.Now().Before(tm.expiresAt) {
		return tm.token, nil
	}
	if err := tm.refresh(ctx); err != nil {
		return "", err
	}
	return tm.token, nil
}

// Invalidate drops the held token so the next Token() call fetches a fresh
// one. The poll loop calls this after an upstream failure as its best-effort
// recovery step.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	tm.token = ""
	tm.expiresAt = time.Time{}
	tm.mu.Unlock()
}

// refresh acquires a client-credentials grant. Caller must hold tm.mu.
func (tm *TokenManager) refresh(ctx context.Context) error {
	data := url.Values{}
	data.Set("client_id", tm.clientID)
	data.Set("client_secret", tm.clientSecret)
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.http.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}

	lifetime := time.Duration(result.ExpiresIn)*time.Second - expiryMargin
	if lifetime < expiryMargin {
		lifetime = expiryMargin
	}

	tm.token = result.AccessToken
	tm.expiresAt = tm.clock.Now().Add(lifetime)
	tm.log.Debug().Time("expires_at", tm.expiresAt).Msg("app token refreshed")
	return nil
}
