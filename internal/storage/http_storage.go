package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ByteFetcher retrieves the raw bytes of a source image. Decoding is the
// engine's job, not the fetcher's.
type ByteFetcher interface {
	FetchBytes(ctx context.Context, sourceURL string) ([]byte, error)
}

// HTTPByteFetcher implements ByteFetcher over plain HTTP(S)
type HTTPByteFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPByteFetcher creates an HTTP byte fetcher. maxBytes bounds the
// downloaded body; timeout bounds the whole request.
func NewHTTPByteFetcher(maxBytes int64, timeout time.Duration) ByteFetcher {
	// Transport tuned for one-off image downloads
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression:     false,
		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPByteFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			// Prevent redirect chains from wandering off
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

func (h *HTTPByteFetcher) FetchBytes(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Image-Compress/1.0")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	// Retry transient failures; 4xx responses are terminal
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)
		if err != nil {
			lastErr = err
			resp = nil
		} else if resp.StatusCode == http.StatusOK {
			break
		} else {
			code := resp.StatusCode
			resp.Body.Close()
			resp = nil
			if code >= 400 && code < 500 {
				return nil, fmt.Errorf("client error: status code %d", code)
			}
			lastErr = fmt.Errorf("server error: status code %d", code)
		}

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}

	if resp == nil {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch image after 3 attempts: unknown error")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", h.maxBytes)
	}

	return data, nil
}
