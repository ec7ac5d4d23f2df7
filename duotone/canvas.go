package duotone

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

var ErrCanvas = errors.New("degenerate canvas")

// Size is a <width>x<height> pair as given on the command line.
type Size struct {
	Width  int
	Height int
}

func (s *Size) UnmarshalText(text []byte) error {
	w, h, err := splitPair(string(text), "x")
	if err != nil {
		return fmt.Errorf("invalid size %q, should be <width>x<height>: %w", text, err)
	}
	s.Width, s.Height = w, h
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Padding is the border reserved around the comic, as <horizontal>:<vertical>.
type Padding struct {
	Horizontal int
	Vertical   int
}

func (p *Padding) UnmarshalText(text []byte) error {
	h, v, err := splitPair(string(text), ":")
	if err != nil {
		return fmt.Errorf("invalid padding %q, should be <horizontal>:<vertical>: %w", text, err)
	}
	p.Horizontal, p.Vertical = h, v
	return nil
}

func (p Padding) String() string {
	return fmt.Sprintf("%d:%d", p.Horizontal, p.Vertical)
}

func splitPair(s, sep string) (int, int, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("missing %q separator", sep)
	}
	x, err := strconv.ParseUint(a, 10, 31)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseUint(b, 10, 31)
	if err != nil {
		return 0, 0, err
	}
	return int(x), int(y), nil
}

// Canvas is the output raster the comic is centered onto.
type Canvas struct {
	Size
	Padding
}

// Available returns the area left for the comic once padding is removed.
func (c Canvas) Available() (int, int) {
	return c.Width - c.Horizontal, c.Height - c.Vertical
}

func (c Canvas) Validate() error {
	w, h := c.Available()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: size %s leaves %dx%d after padding %s", ErrCanvas, c.Size, w, h, c.Padding)
	}
	return nil
}

// ScaleFactor is the uniform factor fitting a srcW x srcH image in the
// available area. It never exceeds 1.
func (c Canvas) ScaleFactor(srcW, srcH int) float64 {
	availW, availH := c.Available()
	return min(float64(availW)/float64(srcW), float64(availH)/float64(srcH), 1.0)
}

// Offset centers a w x h image on the canvas, truncating odd remainders.
func (c Canvas) Offset(w, h int) (image.Point, error) {
	if w > c.Width || h > c.Height {
		return image.Point{}, fmt.Errorf("%w: %dx%d image does not fit %s canvas", ErrComposite, w, h, c.Size)
	}
	return image.Pt((c.Width-w)/2, (c.Height-h)/2), nil
}

// Color is one duotone endpoint, always opaque.
type Color color.NRGBA

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor reads RRGGBB, with or without a leading '#'.
func ParseColor(s string) (Color, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil {
		return Color{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if len(raw) != 3 {
		return Color{}, fmt.Errorf("invalid color %q, should be RRGGBB", s)
	}

	return Color{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}, nil
}
