// Package source normalizes the different shapes an image can arrive in
// (raw request body, multipart field, inline base64, remote URL) into one
// byte slice resolved exactly once at the route boundary.
package source

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"

	apperrors "go-image-compress/internal/errors"
	"go-image-compress/internal/storage"
)

// ErrEmptySource indicates a declared source resolved to zero bytes
var ErrEmptySource = errors.New("image source is empty")

// UploadSource is the tagged union of supported image inputs
type UploadSource interface {
	isUploadSource()
}

// RawBody is a raw request-stream payload
type RawBody struct {
	Data []byte
}

// MultipartFile is an uploaded multipart form file
type MultipartFile struct {
	Header *multipart.FileHeader
}

// Base64 is an inline base64 payload, optionally carrying a data-URI prefix
type Base64 struct {
	Payload string
}

// RemoteURL references an image fetched over the network
type RemoteURL struct {
	URL string
}

func (RawBody) isUploadSource()       {}
func (MultipartFile) isUploadSource() {}
func (Base64) isUploadSource()        {}
func (RemoteURL) isUploadSource()     {}

// dataURIPrefix matches "data:image/<type>;base64," at the payload start
var dataURIPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// Resolver turns an UploadSource into raw bytes. Remote URLs go through the
// HTTP fetcher, or the Azure fetcher when configured and the host matches.
type Resolver struct {
	httpFetcher  storage.ByteFetcher
	azureFetcher storage.ByteFetcher
}

// NewResolver creates a resolver. azureFetcher may be nil.
func NewResolver(httpFetcher storage.ByteFetcher, azureFetcher storage.ByteFetcher) *Resolver {
	return &Resolver{
		httpFetcher:  httpFetcher,
		azureFetcher: azureFetcher,
	}
}

// Resolve decodes the source into raw image bytes
func (r *Resolver) Resolve(ctx context.Context, src UploadSource) ([]byte, error) {
	switch s := src.(type) {
	case RawBody:
		if len(s.Data) == 0 {
			return nil, ErrEmptySource
		}
		return s.Data, nil

	case MultipartFile:
		return r.resolveMultipart(s)

	case Base64:
		return decodeBase64(s.Payload)

	case RemoteURL:
		data, err := r.fetcherFor(s.URL).FetchBytes(ctx, s.URL)
		if err != nil {
			return nil, apperrors.NewNetworkError("Failed to fetch image", err)
		}
		if len(data) == 0 {
			return nil, ErrEmptySource
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported upload source %T", src)
	}
}

func (r *Resolver) resolveMultipart(s MultipartFile) ([]byte, error) {
	if s.Header == nil {
		return nil, ErrEmptySource
	}
	file, err := s.Header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open multipart file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptySource
	}
	return data, nil
}

func decodeBase64(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptySource
	}
	payload = dataURIPrefix.ReplaceAllString(payload, "")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid base64 payload", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptySource
	}
	return data, nil
}

func (r *Resolver) fetcherFor(sourceURL string) storage.ByteFetcher {
	if r.azureFetcher != nil && storage.IsAzureBlobURL(sourceURL) {
		return r.azureFetcher
	}
	return r.httpFetcher
}
