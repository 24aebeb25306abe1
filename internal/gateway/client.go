// Package gateway is the messaging transport: an outbound REST client for
// user lookup and direct-message delivery, and the inbound webhook surface
// that feeds events to the onboarding engine.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/BrandonDavidJones1/hire-bot/internal/onboarding/models"
	"github.com/BrandonDavidJones1/hire-bot/pkg/platform/sentinel"
)

// Client talks to the chat platform's REST API with bot-token auth. It
// implements the onboarding engine's Gateway port; platform status codes are
// folded into the sentinel errors the engine keys its behavior on.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger

	// DM channels are stable per user, so resolved channel IDs are cached to
	// halve the request count on the hot send path.
	mu       sync.RWMutex
	channels map[string]string
}

type ClientOption func(*Client)

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

func NewClient(baseURL, botToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		token:    botToken,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   slog.Default(),
		channels: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUser resolves a user ID to its profile. Unknown or deleted users map
// to sentinel.ErrNotFound.
func (c *Client) FetchUser(ctx context.Context, userID string) (models.User, error) {
	var payload struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Bot      bool   `json:"bot"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &payload); err != nil {
		return models.User{}, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	return models.User{ID: payload.ID, Username: payload.Username, Bot: payload.Bot}, nil
}

// SendDM delivers text to the user's direct-message channel, opening the
// channel first if this client has not messaged them before.
func (c *Client) SendDM(ctx context.Context, userID, text string) error {
	channelID, err := c.dmChannel(ctx, userID)
	if err != nil {
		return fmt.Errorf("open dm channel for %s: %w", userID, err)
	}

	body := map[string]string{"content": text}
	if err := c.do(ctx, http.MethodPost, "/channels/"+url.PathEscape(channelID)+"/messages", body, nil); err != nil {
		return fmt.Errorf("send dm to %s: %w", userID, err)
	}
	return nil
}

func (c *Client) dmChannel(ctx context.Context, userID string) (string, error) {
	c.mu.RLock()
	channelID, ok := c.channels[userID]
	c.mu.RUnlock()
	if ok {
		return channelID, nil
	}

	var payload struct {
		ID string `json:"id"`
	}
	body := map[string]string{"recipient_id": userID}
	if err := c.do(ctx, http.MethodPost, "/users/@me/channels", body, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", fmt.Errorf("empty channel id for user %s", userID)
	}

	c.mu.Lock()
	c.channels[userID] = payload.ID
	c.mu.Unlock()
	return payload.ID, nil
}

// do performs one authenticated API call, decoding the response into out when
// it is non-nil. 404 and 403 become the engine's sentinel errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return sentinel.ErrForbidden
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
