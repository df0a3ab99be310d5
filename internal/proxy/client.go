package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ReplayResult carries the upstream response back to the caller. The status
// code is relayed as-is; an upstream error status is not a proxy failure.
type ReplayResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Header      http.Header
}

// ReplayClient executes parsed curl descriptors
type ReplayClient struct {
	client *http.Client
}

// NewReplayClient creates a replay client with the given overall timeout
func NewReplayClient(timeout time.Duration) *ReplayClient {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &ReplayClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Execute converts the descriptor into an outbound request and runs it.
// Headers are copied verbatim, the cookie string becomes a Cookie header,
// the body is forwarded unmodified and query parameters are appended only
// when non-empty.
func (c *ReplayClient) Execute(ctx context.Context, d *RequestDescriptor) (*ReplayResult, error) {
	targetURL := d.URL
	if len(d.Query) > 0 {
		separator := "?"
		if strings.Contains(targetURL, "?") {
			separator = "&"
		}
		targetURL = targetURL + separator + d.Query.Encode()
	}

	var body io.Reader
	if d.Body != "" {
		body = strings.NewReader(d.Body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy request: %w", err)
	}

	for name, value := range d.Headers {
		req.Header.Set(name, value)
	}
	if d.Cookie != "" {
		req.Header.Set("Cookie", d.Cookie)
	}
	if d.HasAuth {
		req.SetBasicAuth(d.Username, d.Password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return &ReplayResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		Header:      resp.Header,
	}, nil
}
