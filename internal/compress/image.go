package compress

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageCodec compresses images in-process. It decodes JPEG, PNG, GIF and WebP,
// and encodes JPEG, PNG and GIF. WebP input is reported as unsupported.
type ImageCodec struct {
	log *slog.Logger
}

func NewImageCodec(log *slog.Logger) *ImageCodec {
	if log == nil {
		log = slog.Default()
	}
	return &ImageCodec{log: log.With("component", "image_codec")}
}

var _ ImageCompressor = (*ImageCodec)(nil)

func (c *ImageCodec) Compress(ctx context.Context, src, dst string, opts ImageOptions) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open image: %w", err)
	}
	img, format, err := image.Decode(in)
	in.Close()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img = resize(img, opts.ResizeFactor)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	err = encode(out, img, format, opts.Quality)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, err
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	c.log.Debug("image compressed", "format", format, "quality", opts.Quality, "resize_factor", opts.ResizeFactor, "size", info.Size())
	return info.Size(), nil
}

// resize scales img by factor with Catmull-Rom resampling. Factors outside (0, 1) return img unchanged.
func resize(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		return img
	}
	b := img.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*factor)))
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: clamp(quality, 1, 100)})
	case "png":
		enc := png.Encoder{CompressionLevel: PNGCompressionLevel(quality)}
		return enc.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedImage, format)
	}
}

// PNGCompressionLevel maps quality onto a zlib level 0-9 (9*(100-q)/100, capped at 9)
// and then onto the nearest level the png encoder supports.
func PNGCompressionLevel(quality int) png.CompressionLevel {
	level := min(9, 9*(100-clamp(quality, 0, 100))/100)
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
