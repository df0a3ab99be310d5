package service

import (
	"context"

	"go-image-compress/internal/engine"
	apperrors "go-image-compress/internal/errors"
	"go-image-compress/internal/metrics"
	"go-image-compress/internal/source"
	"go-image-compress/pkg/validation"
)

// CompressionRequest describes one compression operation. Source must be a
// single declared image input; Quality nil means "use the default".
type CompressionRequest struct {
	Source  source.UploadSource
	Width   int
	Height  int
	Quality *int
	Format  string
}

// CompressionService defines the image compression operations
type CompressionService interface {
	Compress(ctx context.Context, req CompressionRequest) (*engine.Result, error)
}

type compressionService struct {
	provider  engine.Provider
	resolver  *source.Resolver
	validator *validation.URLValidator
}

// NewCompressionService creates a new compression service
func NewCompressionService(
	provider engine.Provider,
	resolver *source.Resolver,
) CompressionService {
	return &compressionService{
		provider:  provider,
		resolver:  resolver,
		validator: validation.NewURLValidator(),
	}
}

// Compress resolves the request's byte source, acquires the image engine and
// re-encodes. The source is resolved before the engine is acquired so that
// bad input never touches the capability.
func (s *compressionService) Compress(ctx context.Context, req CompressionRequest) (*engine.Result, error) {
	if req.Source == nil {
		return nil, apperrors.NewValidationError("Image source is required (url, base64 or upload)", nil)
	}

	if remote, ok := req.Source.(source.RemoteURL); ok {
		if err := s.validator.ValidateImageURL(remote.URL); err != nil {
			return nil, err
		}
	}

	data, err := s.resolver.Resolve(ctx, req.Source)
	if err != nil {
		if err == source.ErrEmptySource {
			return nil, apperrors.NewValidationError("Image source is empty", err)
		}
		if _, ok := err.(*apperrors.AppError); ok {
			return nil, err
		}
		return nil, apperrors.NewValidationError("Failed to read image source", err)
	}

	eng, err := s.provider.Acquire()
	if err != nil {
		return nil, apperrors.NewUnavailableError("Image capability unavailable", err)
	}

	opts := engine.Options{
		Width:   req.Width,
		Height:  req.Height,
		Quality: resolveQuality(req.Quality),
		Format:  engine.ParseFormat(req.Format),
	}

	result, err := eng.Compress(ctx, data, opts)
	if err != nil {
		metrics.CompressionsTotal.WithLabelValues(string(opts.Format), "error").Inc()
		return nil, apperrors.NewProcessingError("Failed to compress image", err)
	}

	metrics.CompressionsTotal.WithLabelValues(string(opts.Format), "ok").Inc()
	metrics.CompressionBytesIn.Add(float64(result.OriginalSize))
	metrics.CompressionBytesOut.Add(float64(result.CompressedSize))

	return result, nil
}

func resolveQuality(q *int) int {
	if q == nil {
		return engine.DefaultQuality
	}
	return engine.ClampQuality(*q)
}
