package source

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	apperrors "go-image-compress/internal/errors"
)

type stubFetcher struct {
	data []byte
	err  error
	urls []string
}

func (s *stubFetcher) FetchBytes(ctx context.Context, sourceURL string) ([]byte, error) {
	s.urls = append(s.urls, sourceURL)
	return s.data, s.err
}

func TestResolve_RawBody(t *testing.T) {
	r := NewResolver(&stubFetcher{}, nil)

	data, err := r.Resolve(context.Background(), RawBody{Data: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) != 3 {
		t.Errorf("Expected 3 bytes, got %d", len(data))
	}
}

func TestResolve_EmptyRawBody(t *testing.T) {
	r := NewResolver(&stubFetcher{}, nil)

	_, err := r.Resolve(context.Background(), RawBody{})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("Expected ErrEmptySource, got %v", err)
	}
}

func TestResolve_Base64(t *testing.T) {
	payload := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name  string
		input string
	}{
		{"Plain base64", encoded},
		{"Data URI prefix", "data:image/png;base64," + encoded},
		{"Data URI jpeg prefix", "data:image/jpeg;base64," + encoded},
		{"Data URI svg+xml prefix", "data:image/svg+xml;base64," + encoded},
	}

	r := NewResolver(&stubFetcher{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.Resolve(context.Background(), Base64{Payload: tt.input})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(data) != string(payload) {
				t.Errorf("Expected %q, got %q", payload, data)
			}
		})
	}
}

func TestResolve_InvalidBase64(t *testing.T) {
	r := NewResolver(&stubFetcher{}, nil)

	_, err := r.Resolve(context.Background(), Base64{Payload: "!!not base64!!"})
	if err == nil {
		t.Fatal("Expected error for invalid base64")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestResolve_EmptyBase64(t *testing.T) {
	r := NewResolver(&stubFetcher{}, nil)

	_, err := r.Resolve(context.Background(), Base64{Payload: ""})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("Expected ErrEmptySource, got %v", err)
	}
}

func TestResolve_RemoteURL(t *testing.T) {
	fetcher := &stubFetcher{data: []byte("remote bytes")}
	r := NewResolver(fetcher, nil)

	data, err := r.Resolve(context.Background(), RemoteURL{URL: "https://example.com/a.png"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "remote bytes" {
		t.Errorf("Expected fetched bytes, got %q", data)
	}
	if len(fetcher.urls) != 1 || fetcher.urls[0] != "https://example.com/a.png" {
		t.Errorf("Expected one fetch of the source URL, got %v", fetcher.urls)
	}
}

func TestResolve_RemoteURLFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	r := NewResolver(fetcher, nil)

	_, err := r.Resolve(context.Background(), RemoteURL{URL: "https://example.com/a.png"})
	if err == nil {
		t.Fatal("Expected fetch error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestResolve_AzureURLRouting(t *testing.T) {
	httpFetcher := &stubFetcher{data: []byte("http")}
	azureFetcher := &stubFetcher{data: []byte("azure")}
	r := NewResolver(httpFetcher, azureFetcher)

	data, err := r.Resolve(context.Background(), RemoteURL{URL: "https://acct.blob.core.windows.net/container?blob=a.png"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "azure" {
		t.Error("Expected the Azure fetcher to serve a blob storage URL")
	}

	data, err = r.Resolve(context.Background(), RemoteURL{URL: "https://example.com/a.png"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "http" {
		t.Error("Expected the HTTP fetcher to serve a plain URL")
	}
}
