package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the EmailJS REST API base URL.
	BaseURL = "https://api.emailjs.com/api/v1.0"
)

// Config holds the EmailJS account credentials.
type Config struct {
	BaseURL    string
	ServiceID  string
	PublicKey  string
	PrivateKey string
}

// Client is a minimal HTTP client for the EmailJS send API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceID  string
	publicKey  string
	privateKey string
	debug      bool
}

// NewClient constructs a new EmailJS client with sane defaults.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = BaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(base, "/"),
		serviceID:  cfg.ServiceID,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// APIError is returned when EmailJS answers with a non 2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("emailjs: status %d: %s", e.StatusCode, e.Body)
}

// Send renders templateID with params and delivers it.
func (c *Client) Send(ctx context.Context, templateID string, params map[string]string) error {
	req := SendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     templateID,
		UserID:         c.publicKey,
		AccessToken:    c.privateKey,
		TemplateParams: params,
	}
	return c.doRequest(ctx, "/email/send", req)
}

// doRequest POSTs body as JSON. EmailJS answers with plain text ("OK" on
// success), so only the status code is interpreted.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			Str("template_id", templateOf(body)).
			Msg("[EMAILJS] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("[EMAILJS] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return nil
}

func templateOf(body any) string {
	if r, ok := body.(SendRequest); ok {
		return r.TemplateID
	}
	return ""
}
