package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/sport-analytics/internal/domain"
)

const maxBodyBytes = 1 << 20

// Client talks to the remote identity service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A nil httpClient falls back to a client without a global timeout;
// callers bound each call through its context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Me exchanges a session token for the user it belongs to. It makes exactly one request.
func (c *Client) Me(ctx context.Context, token string) (*domain.VerifiedUser, error) {
	var user domain.VerifiedUser
	if err := c.post(ctx, "/users/me", domain.BearerCredential(token), &user); err != nil {
		return nil, fmt.Errorf("identity.Me: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity.Me: %w: missing id", ErrMalformedResponse)
	}
	return &user, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// errorMessage pulls a readable message out of common error envelopes.
func errorMessage(body []byte) string {
	var envelope struct {
		Error  string `json:"error"`
		Detail any    `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if s, ok := envelope.Detail.(string); ok && s != "" {
			return s
		}
	}
	return strings.TrimSpace(string(body))
}
