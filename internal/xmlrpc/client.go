package xmlrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client performs XML-RPC calls against a single endpoint URL.
type Client struct {
	url string
	hc  *http.Client
}

// NewClient creates a client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		hc:  &http.Client{Timeout: 60 * time.Second},
	}
}

// URL returns the endpoint this client calls.
func (c *Client) URL() string { return c.url }

// Call invokes method with params and returns the decoded result value.
// Fault responses are returned as a *Fault error; transport failures are
// wrapped and returned as-is.
func (c *Client) Call(ctx context.Context, method string, params []any) (any, error) {
	body, err := EncodeMethodCall(method, params)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: request %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: call %s: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("xmlrpc: call %s: unexpected HTTP status %s", method, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("xmlrpc: read %s response: %w", method, err)
	}
	return DecodeResponse(data)
}
