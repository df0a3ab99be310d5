//go:build cgo

package engine

import (
	"context"
	"fmt"
	"sync"

	"go-image-compress/internal/logger"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsStartOnce sync.Once
	vipsStarted   bool
)

// startVips initializes libvips once per process with conservative memory
// settings. vips log output is forwarded to the application logger.
func startVips() {
	vipsStartOnce.Do(func() {
		vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
			entry := logger.WithField("domain", domain)
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				entry.Error(msg)
			case vips.LogLevelWarning:
				entry.Warn(msg)
			default:
				entry.Debug(msg)
			}
		}, vips.LogLevelWarning)

		vips.Startup(&vips.Config{
			ConcurrencyLevel: 1,
			MaxCacheMem:      50 * 1024 * 1024,
			MaxCacheSize:     100,
		})
		vipsStarted = true

		logger.WithField("version", vips.Version).Info("libvips initialized")
	})
}

type vipsEngine struct{}

// newVipsEngine starts libvips and returns the native engine. A startup
// panic (missing or broken libvips installation) is converted to an error so
// the provider can fall through to the pure-Go engine.
func newVipsEngine() (e Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("libvips startup failed: %v", r)
		}
	}()
	startVips()
	return &vipsEngine{}, nil
}

func (v *vipsEngine) Name() string {
	return "vips"
}

func (v *vipsEngine) Compress(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer ref.Close()

	origWidth := ref.Width()
	origHeight := ref.Height()

	if opts.Width > 0 || opts.Height > 0 {
		w, h := fitWithin(origWidth, origHeight, opts.Width, opts.Height)
		// SizeDown keeps the requested bounds an upper limit only
		if err := ref.ThumbnailWithSize(w, h, vips.InterestingNone, vips.SizeDown); err != nil {
			return nil, fmt.Errorf("failed to resize image: %w", err)
		}
	}

	var out []byte
	switch opts.Format {
	case FormatPNG:
		out, _, err = ref.ExportPng(&vips.PngExportParams{
			Compression: 9,
			Interlace:   false,
		})
	case FormatWebP:
		out, _, err = ref.ExportWebp(&vips.WebpExportParams{
			Quality:       opts.Quality,
			StripMetadata: true,
		})
	default:
		out, _, err = ref.ExportJpeg(&vips.JpegExportParams{
			Quality:        opts.Quality,
			OptimizeCoding: true,
			StripMetadata:  true,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Result{
		Data:             out,
		ContentType:      opts.Format.ContentType(),
		OriginalSize:     len(data),
		CompressedSize:   len(out),
		OriginalWidth:    origWidth,
		OriginalHeight:   origHeight,
		CompressedWidth:  ref.Width(),
		CompressedHeight: ref.Height(),
		Ratio:            CompressionRatio(len(data), len(out)),
	}, nil
}

// Close shuts libvips down. Called once at process exit.
func (v *vipsEngine) Close() {
	if vipsStarted {
		vips.Shutdown()
		vipsStarted = false
	}
}
