package engine

import (
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"jpeg", FormatJPEG},
		{"jpg", FormatJPEG},
		{"JPEG", FormatJPEG},
		{"png", FormatPNG},
		{"PNG", FormatPNG},
		{"webp", FormatWebP},
		{"WebP", FormatWebP},
		{" png ", FormatPNG},
		{"gif", FormatJPEG},
		{"bmp", FormatJPEG},
		{"", FormatJPEG},
		{"not-a-format", FormatJPEG},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatContentType(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatJPEG, "image/jpeg"},
		{FormatPNG, "image/png"},
		{FormatWebP, "image/webp"},
		{Format(""), "image/jpeg"},
	}

	for _, tt := range tests {
		if got := tt.format.ContentType(); got != tt.expected {
			t.Errorf("ContentType of %q = %q, expected %q", tt.format, got, tt.expected)
		}
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, 1},
		{-5, 1},
		{150, 100},
		{1, 1},
		{100, 100},
		{80, 80},
	}

	for _, tt := range tests {
		if got := ClampQuality(tt.input); got != tt.expected {
			t.Errorf("ClampQuality(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		compressed int
		expected   float64
	}{
		{"Half the size", 1000, 500, 50.0},
		{"No-op passthrough", 1000, 1000, 0.0},
		{"Two decimal rounding", 3000, 1000, 66.67},
		{"Grew larger", 1000, 1500, -50.0},
		{"Zero original", 0, 100, 0.0},
		{"Negative original", -10, 100, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompressionRatio(tt.original, tt.compressed); got != tt.expected {
				t.Errorf("CompressionRatio(%d, %d) = %v, expected %v", tt.original, tt.compressed, got, tt.expected)
			}
		})
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name                 string
		origW, origH         int
		reqW, reqH           int
		expectedW, expectedH int
	}{
		{"No bounds requested", 800, 600, 0, 0, 800, 600},
		{"Both bounds below original", 800, 600, 400, 300, 400, 300},
		{"Bounds exceed original", 800, 600, 1600, 1200, 800, 600},
		{"Width only", 800, 600, 400, 0, 400, 600},
		{"Height only", 800, 600, 0, 300, 800, 300},
		{"One bound above original", 800, 600, 1000, 300, 800, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.origW, tt.origH, tt.reqW, tt.reqH)
			if w != tt.expectedW || h != tt.expectedH {
				t.Errorf("fitWithin(%d, %d, %d, %d) = (%d, %d), expected (%d, %d)",
					tt.origW, tt.origH, tt.reqW, tt.reqH, w, h, tt.expectedW, tt.expectedH)
			}
		})
	}
}
