// Package crm submits captured leads to the external CRM webhook.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synctrack/sylvia/pkg/logging"
)

// Result is the outcome of a single webhook submission. The CRM call
// never retries; callers pattern-match on Accepted and log the rest.
type Result struct {
	Accepted bool
	Status   int
	Err      error
}

// Reason describes a failed result for logging.
func (r Result) Reason() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("webhook returned status %d", r.Status)
}

// Submitter sends a lead payload to the CRM.
type Submitter interface {
	Submit(ctx context.Context, p Payload) Result
}

// Client POSTs lead payloads to a fixed webhook URL.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds each submission request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a CRM webhook client. The default request timeout
// is 10 seconds so a slow endpoint cannot stall session teardown.
func NewClient(webhookURL string, opts ...ClientOption) *Client {
	c := &Client{
		url: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit POSTs the payload once. An accepted result means the webhook
// answered 200, 201, or 202; everything else, including transport
// errors and timeouts, comes back as a non-accepted Result.
func (c *Client) Submit(ctx context.Context, p Payload) Result {
	body, err := json.Marshal(p)
	if err != nil {
		return Result{Err: fmt.Errorf("crm: marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Errorf("crm: create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("crm: webhook request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		c.logger.Info("crm: lead accepted", "status", resp.StatusCode, "name", p.Name, "company", p.Company)
		return Result{Accepted: true, Status: resp.StatusCode}
	default:
		c.logger.Error("crm: webhook rejected lead",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return Result{Status: resp.StatusCode}
	}
}

var _ Submitter = (*Client)(nil)
