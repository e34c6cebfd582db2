package jobrunner

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrNotConfigured indicates the runner secret key is missing.
var ErrNotConfigured = errors.New("job runner not configured")

// APIError carries a non-success response from the runner.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("job runner returned status %d: %s", e.Status, e.Body)
}

// Client triggers tasks on the external asynchronous job runner.
type Client struct {
	http    *resty.Client
	baseURL string
	secret  string
}

// NewClient returns a runner client. An empty secret yields a client whose
// Trigger always fails with ErrNotConfigured.
func NewClient(httpClient *resty.Client, baseURL, secret string) *Client {
	if httpClient == nil {
		httpClient = resty.New()
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		secret:  secret,
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c != nil && c.secret != "" && c.baseURL != ""
}

// VerifySecret reports whether token matches the runner secret. Used to authenticate
// callbacks from the runner.
func (c *Client) VerifySecret(token string) bool {
	return c.Configured() && token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.secret)) == 1
}

type triggerRequest struct {
	Payload any `json:"payload"`
}

type triggerResponse struct {
	ID string `json:"id"`
}

// Trigger enqueues taskID with payload and returns the run identifier assigned by the runner.
func (c *Client) Trigger(ctx context.Context, taskID string, payload any) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var out triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.secret).
		SetHeader("Content-Type", "application/json").
		SetBody(triggerRequest{Payload: payload}).
		SetResult(&out).
		Post(fmt.Sprintf("%s/api/v1/tasks/%s/trigger", c.baseURL, url.PathEscape(taskID)))
	if err != nil {
		return "", fmt.Errorf("trigger task %s: %w", taskID, err)
	}

	if resp.IsError() {
		return "", &APIError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	if out.ID == "" {
		return "", fmt.Errorf("trigger task %s: response missing run id", taskID)
	}

	return out.ID, nil
}
