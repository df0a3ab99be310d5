package engine

import (
	"context"
	"math"
	"strings"
)

// Format is the output encoding for compressed images
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// DefaultQuality is applied when a request does not specify one
const DefaultQuality = 80

// ParseFormat maps a user-supplied format string to a supported Format.
// Matching is case-insensitive; unrecognized values fall back to JPEG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "webp":
		return FormatWebP
	default:
		return FormatJPEG
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Options control a single compression operation.
// Width and Height are upper bounds (0 = unconstrained); the image is fit
// inside them and never enlarged past its original dimensions.
// Quality is a lossy ratio for JPEG and WebP; PNG is lossless and always
// exported with maximum compression effort regardless of Quality.
type Options struct {
	Width   int
	Height  int
	Quality int
	Format  Format
}

// ClampQuality bounds a quality value to [1,100]
func ClampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Result holds the encoded output and size/dimension metadata
type Result struct {
	Data        []byte
	ContentType string

	OriginalSize   int
	CompressedSize int

	OriginalWidth    int
	OriginalHeight   int
	CompressedWidth  int
	CompressedHeight int

	Ratio float64
}

// CompressionRatio computes (1 - compressed/original) * 100 rounded to two
// decimals. A non-positive original size yields 0.
func CompressionRatio(originalSize, compressedSize int) float64 {
	if originalSize <= 0 {
		return 0
	}
	ratio := (1 - float64(compressedSize)/float64(originalSize)) * 100
	return math.Round(ratio*100) / 100
}

// Engine encodes and resizes raw image bytes
type Engine interface {
	// Compress decodes data, applies the resize bounds and re-encodes to the
	// requested format. Quality must already be clamped by the caller.
	Compress(ctx context.Context, data []byte, opts Options) (*Result, error)

	// Name identifies the engine implementation
	Name() string
}

// fitWithin resolves the requested bounds against the original dimensions:
// a missing bound defaults to the original, and neither bound may exceed it.
func fitWithin(origWidth, origHeight, reqWidth, reqHeight int) (int, int) {
	w := reqWidth
	h := reqHeight
	if w <= 0 || w > origWidth {
		w = origWidth
	}
	if h <= 0 || h > origHeight {
		h = origHeight
	}
	return w, h
}
