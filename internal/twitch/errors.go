package twitch

import "fmt"

// AuthError reports a failed app-token acquisition. It carries the upstream
// status and body for diagnostics.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("twitch auth failed with status %d: %s", e.Status, e.Body)
}

// APIError reports a non-success response from a Helix endpoint.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitch %s failed with status %d: %s", e.Endpoint, e.Status, e.Body)
}
