package compress

import (
	"context"
	"errors"
	"time"
)

// Package compress wraps the codecs and external tools that shrink media files.

var (
	// ErrToolUnavailable means the external compressor binary cannot be run.
	ErrToolUnavailable = errors.New("compression tool unavailable")
	// ErrToolFailed means the compressor ran but did not produce an output.
	ErrToolFailed = errors.New("compression tool failed")
	// ErrUnsupportedImage means the image cannot be decoded or re-encoded.
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// ImageOptions controls image re-encoding.
type ImageOptions struct {
	// Quality is 0-100; higher keeps more detail.
	Quality int
	// ResizeFactor scales both dimensions, 0 < f <= 1.
	ResizeFactor float64
}

// ImageCompressor re-encodes an image from src into dst and returns the size of dst.
type ImageCompressor interface {
	Compress(ctx context.Context, src, dst string, opts ImageOptions) (int64, error)
}

// ProgressFunc receives the elapsed media time reported by the encoder.
type ProgressFunc func(elapsed time.Duration)

// VideoCompressor transcodes video through an external tool.
type VideoCompressor interface {
	// Available reports whether the tool can be executed.
	Available(ctx context.Context) bool
	// Probe returns the media duration of path.
	Probe(ctx context.Context, path string) (time.Duration, error)
	// Compress writes a re-encoded copy of src to dst using the given CRF.
	Compress(ctx context.Context, src, dst string, crf int, progress ProgressFunc) error
}

// ProgressPercent converts elapsed media time into a 0-100 percentage of duration.
func ProgressPercent(elapsed, duration time.Duration) int {
	if duration <= 0 || elapsed <= 0 {
		return 0
	}
	p := int(elapsed * 100 / duration)
	if p > 100 {
		return 100
	}
	return p
}
