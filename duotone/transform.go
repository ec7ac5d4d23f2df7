package duotone

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"sync"

	"xkcdpaper/parallel"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrDecode    = errors.New("could not decode image")
	ErrComposite = errors.New("could not composite image")
	ErrEncode    = errors.New("could not encode image")
)

type Options struct {
	Canvas     Canvas
	Foreground Color
	Background Color
	// Workers bounds recolor parallelism, 0 means GOMAXPROCS.
	Workers int
}

// Transform decodes raw, inverts it, fits it to the canvas, recolors it
// with the duotone palette and returns the result as PNG.
func Transform(logger *slog.Logger, raw []byte, opts Options) ([]byte, error) {
	if err := opts.Canvas.Validate(); err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	logger.Debug("decoded", "format", format, "width", src.Bounds().Dx(), "height", src.Bounds().Dy())

	img := resize(logger, imaging.Invert(src), opts.Canvas)

	canvas, err := composite(img, opts.Canvas)
	if err != nil {
		return nil, err
	}

	pool := parallel.Start(opts.Workers)
	recolor(pool, canvas, opts.Foreground, opts.Background)
	pool.Stop()

	return encode(canvas)
}

func resize(logger *slog.Logger, img *image.NRGBA, c Canvas) *image.NRGBA {
	srcBounds := img.Bounds()
	factor := c.ScaleFactor(srcBounds.Dx(), srcBounds.Dy())
	if factor == 1 {
		return img
	}

	width := max(1, int(math.Round(float64(srcBounds.Dx())*factor)))
	height := max(1, int(math.Round(float64(srcBounds.Dy())*factor)))
	logger.Debug("resizing", "factor", factor, "width", width, "height", height)

	dest := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)
	return dest
}

func composite(img *image.NRGBA, c Canvas) (*image.NRGBA, error) {
	size := img.Bounds().Size()
	offset, err := c.Offset(size.X, size.Y)
	if err != nil {
		return nil, err
	}

	background := imaging.New(c.Width, c.Height, color.NRGBA{})
	return imaging.Paste(background, img, offset), nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{
		CompressionLevel: png.DefaultCompression,
		BufferPool:       pngPool,
	}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
