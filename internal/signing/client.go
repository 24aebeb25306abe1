// Package signing wraps the external document-signing REST API behind the
// four operations the onboarding flow needs: authenticate, upload the
// contract template, create an agreement for a signer, and fetch that
// signer's signing URL.
//
// The adapter is deliberately dumb: pure request/response, no retries. The
// state machine decides whether to let the user retry by re-issuing the
// `sign contract` command, which reruns the whole pipeline.
package signing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	apiBasePath = "/api/rest/v6"

	// Refresh slightly early so a token never expires mid-pipeline.
	expiryMargin = 60 * time.Second
)

// Config carries the credentials and endpoints for the signing service.
type Config struct {
	ClientID     string
	ClientSecret string
	APIHost      string
	OAuthURL     string
}

// Client is the signing service adapter. Safe for concurrent use; the only
// shared state is the cached bearer token.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	// Token cache: one slot guarded by mu, refreshed through the
	// singleflight group so concurrent expired-token callers share a single
	// credentials exchange instead of racing duplicate fetches.
	mu      sync.Mutex
	token   string
	expiry  time.Time
	refresh singleflight.Group
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate returns a bearer token, reusing the cached one while it is
// unexpired and performing a client-credentials exchange otherwise.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Now().Before(c.expiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	result, err, _ := c.refresh.Do("token", func() (any, error) {
		return c.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" || c.cfg.OAuthURL == "" {
		return "", ErrConfiguration
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAuth, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	c.mu.Lock()
	c.token = payload.AccessToken
	c.expiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - expiryMargin)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "signing token refreshed", "expires_in", payload.ExpiresIn)
	return payload.AccessToken, nil
}

// UploadTemplate uploads the contract template as a transient document and
// returns its ID, valid for subsequent agreement creation.
func (c *Client) UploadTemplate(ctx context.Context, token, path string) (string, error) {
	if c.cfg.APIHost == "" {
		return "", ErrConfiguration
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("%w: open template: %v", ErrUpload, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("File", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: read template: %v", ErrUpload, err)
	}
	if err := writer.WriteField("File-Name", filepath.Base(path)); err != nil {
		return "", fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIHost+apiBasePath+"/transientDocuments", &body)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}

	var payload struct {
		TransientDocumentID string `json:"transientDocumentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpload, err)
	}
	if payload.TransientDocumentID == "" {
		return "", fmt.Errorf("%w: empty transient document id", ErrUpload)
	}
	return payload.TransientDocumentID, nil
}

// CreateAgreement creates a signature-in-progress agreement naming the hire
// as the sole signer and returns the agreement ID.
func (c *Client) CreateAgreement(ctx context.Context, token, documentID, title, signerEmail, firstName, lastName string) (string, error) {
	if c.cfg.APIHost == "" {
		return "", ErrConfiguration
	}

	reqBody := map[string]any{
		"fileInfos": []map[string]any{
			{"transientDocumentId": documentID},
		},
		"name": title,
		"participantSetsInfo": []map[string]any{
			{
				"memberInfos": []map[string]any{
					{
						"email":     signerEmail,
						"firstName": firstName,
						"lastName":  lastName,
					},
				},
				"order": 1,
				"role":  "SIGNER",
			},
		},
		"signatureType": "ESIGN",
		"state":         "IN_PROCESS",
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrAgreement, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIHost+apiBasePath+"/agreements", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrAgreement, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgreement, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d", ErrAgreement, resp.StatusCode)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAgreement, err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("%w: empty agreement id", ErrAgreement)
	}
	return payload.ID, nil
}

// GetSigningURL returns the e-sign URL for the given signer on an agreement.
func (c *Client) GetSigningURL(ctx context.Context, token, agreementID, signerEmail string) (string, error) {
	if c.cfg.APIHost == "" {
		return "", ErrConfiguration
	}

	endpoint := fmt.Sprintf("%s%s/agreements/%s/signingUrls", c.cfg.APIHost, apiBasePath, url.PathEscape(agreementID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrSigningURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrSigningURL, resp.StatusCode)
	}

	var payload struct {
		SigningURLSetInfos []struct {
			SigningURLs []struct {
				Email    string `json:"email"`
				EsignURL string `json:"esignUrl"`
			} `json:"signingUrls"`
		} `json:"signingUrlSetInfos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrSigningURL, err)
	}

	for _, set := range payload.SigningURLSetInfos {
		for _, su := range set.SigningURLs {
			if strings.EqualFold(su.Email, signerEmail) && su.EsignURL != "" {
				return su.EsignURL, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSigningURLNotFound, signerEmail)
}
