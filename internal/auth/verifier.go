// Package auth verifies bearer tokens against the identity service.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidToken covers every authentication failure the caller can cause:
// a rejected token or a verified payload with no usable identifier.
var ErrInvalidToken = errors.New("invalid authentication token")

// Identity is the verified caller identity. Email keys the usage counter.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier checks refresh tokens against the identity service's
// verification endpoint.
type Verifier struct {
	endpoint string
	appID    string
	client   *http.Client
}

// NewVerifier creates a Verifier for the given endpoint and app id.
func NewVerifier(endpoint, appID string) *Verifier {
	return &Verifier{
		endpoint: endpoint,
		appID:    appID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify exchanges the token for a verified identity. A token the service
// rejects, and a payload without an email, both map to ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	payload, err := json.Marshal(map[string]string{
		"app-id":        v.appID,
		"refresh-token": token,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	// The user object may arrive nested under "user" or at the top level.
	var body struct {
		User *Identity `json:"user"`
		Identity
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	ident := body.User
	if ident == nil {
		ident = &body.Identity
	}
	if ident.Email == "" {
		return nil, fmt.Errorf("%w: no email in verified payload", ErrInvalidToken)
	}

	return ident, nil
}
