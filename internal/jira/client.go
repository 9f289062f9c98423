package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jtcli/jt/internal/config"
	"github.com/jtcli/jt/internal/debug"
)

const (
	apiPath   = "/rest/api/3"
	agilePath = "/rest/agile/1.0"
	userAgent = "jt/1.0"
)

// Client provides HTTP access to a Jira Cloud site.
type Client struct {
	URL        string // site root, e.g. https://acme.atlassian.net
	AuthHeader string // full Authorization header value
	HTTPClient *http.Client
}

// NewClient creates a client for the resolved credentials. Requests have
// no client-side timeout; callers bound them through the context.
func NewClient(creds config.Credentials) *Client {
	return &Client{
		URL:        creds.BaseURL(),
		AuthHeader: creds.AuthHeader,
		HTTPClient: &http.Client{},
	}
}

// WithEndpoint returns a copy of the client pointed at another site root.
func (c *Client) WithEndpoint(endpoint string) *Client {
	cp := *c
	cp.URL = strings.TrimSuffix(endpoint, "/")
	return &cp
}

func (c *Client) apiURL(path string) string {
	return c.URL + apiPath + path
}

func (c *Client) agileURL(path string) string {
	return c.URL + agilePath + path
}

// get fetches apiURL and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, op, apiURL string, out interface{}) error {
	body, err := c.doRequest(ctx, op, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}

// send marshals payload, issues the request and decodes the response into
// out when out is non-nil and the response has a body.
func (c *Client) send(ctx context.Context, op, method, apiURL string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}
	body, err := c.doRequest(ctx, op, method, apiURL, data)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}

// doRequest executes an authenticated HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, op, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}

	req.Header.Set("Authorization", c.AuthHeader)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	debug.Logf("jira: %s %s\n", method, apiURL)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	debug.Logf("jira: %s %s -> %d (%d bytes)\n", method, apiURL, resp.StatusCode, len(respBody))

	// PUT and transitions return 204 No Content on success
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Op:         op,
			Method:     method,
			URL:        apiURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
