package compress

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		require.NoError(t, png.Encode(f, img))
	default:
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
	}
}

func decodeConfig(t *testing.T, path string) (image.Config, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg, format
}

func TestImageCodec_Compress(t *testing.T) {
	codec := NewImageCodec(nil)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		opts    ImageOptions
		wantW   int
		wantH   int
		wantFmt string
	}{
		{"jpeg halved", "photo.jpg", ImageOptions{Quality: 70, ResizeFactor: 0.5}, 100, 50, "jpeg"},
		{"png scaled", "shot.png", ImageOptions{Quality: 30, ResizeFactor: 0.8}, 160, 80, "png"},
		{"jpeg unscaled", "full.jpg", ImageOptions{Quality: 50, ResizeFactor: 1}, 200, 100, "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(dir, tt.file)
			dst := filepath.Join(dir, "reduced_"+tt.file)
			writeTestImage(t, src, 200, 100)

			size, err := codec.Compress(context.Background(), src, dst, tt.opts)
			require.NoError(t, err)

			info, err := os.Stat(dst)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), size)

			cfg, format := decodeConfig(t, dst)
			assert.Equal(t, tt.wantFmt, format)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestImageCodec_Compress_Undecodable(t *testing.T) {
	codec := NewImageCodec(nil)
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.png")
	dst := filepath.Join(dir, "reduced_broken.png")
	require.NoError(t, os.WriteFile(src, []byte("definitely not a png"), 0o644))

	_, err := codec.Compress(context.Background(), src, dst, ImageOptions{Quality: 70, ResizeFactor: 0.8})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.NoFileExists(t, dst)
}

func TestImageCodec_Compress_CanceledContext(t *testing.T) {
	codec := NewImageCodec(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := codec.Compress(ctx, "a.jpg", "b.jpg", ImageOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPNGCompressionLevel(t *testing.T) {
	assert.Equal(t, png.NoCompression, PNGCompressionLevel(100))
	assert.Equal(t, png.BestSpeed, PNGCompressionLevel(80))
	assert.Equal(t, png.DefaultCompression, PNGCompressionLevel(40))
	assert.Equal(t, png.BestCompression, PNGCompressionLevel(0))
	assert.Equal(t, png.BestCompression, PNGCompressionLevel(-20))
}
