package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// imagingEngine is the pure-Go fallback used when libvips is unavailable.
// It has no WebP encoder, so webp requests are served as JPEG, mirroring the
// unrecognized-format rule.
type imagingEngine struct{}

func newImagingEngine() (Engine, error) {
	return &imagingEngine{}, nil
}

func (e *imagingEngine) Name() string {
	return "imaging"
}

func (e *imagingEngine) Compress(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	origWidth := img.Bounds().Dx()
	origHeight := img.Bounds().Dy()

	if opts.Width > 0 || opts.Height > 0 {
		w, h := fitWithin(origWidth, origHeight, opts.Width, opts.Height)
		if w < origWidth || h < origHeight {
			img = imaging.Fit(img, w, h, imaging.Lanczos)
		}
	}

	format := opts.Format
	if format == FormatWebP {
		format = FormatJPEG
	}

	out, err := encodeImage(img, format, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Result{
		Data:             out,
		ContentType:      format.ContentType(),
		OriginalSize:     len(data),
		CompressedSize:   len(out),
		OriginalWidth:    origWidth,
		OriginalHeight:   origHeight,
		CompressedWidth:  img.Bounds().Dx(),
		CompressedHeight: img.Bounds().Dy(),
		Ratio:            CompressionRatio(len(data), len(out)),
	}, nil
}

func encodeImage(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
