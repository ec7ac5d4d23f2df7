package duotone

import (
	"image"
	"math"

	"xkcdpaper/parallel"
)

// rows handed to a worker at once
const recolorBand = 16

// recolor maps every pixel of img to the fg/bg duotone in place. Neutral
// pixels land fully on the duotone, chromatic ones (anti-aliased edges) keep
// part of their own inverted color. Fully transparent pixels are left alone
// and alpha is never changed.
func recolor(pool *parallel.Pool, img *image.NRGBA, fg, bg Color) {
	b := img.Bounds()
	rowLen := b.Dx() * 4

	pool.Range(b.Dy(), recolorBand, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+rowLen]
			for i := 0; i < len(row); i += 4 {
				px := row[i : i+4 : i+4]
				if px[3] == 0 {
					continue
				}
				px[0], px[1], px[2] = shade(px[0], px[1], px[2], fg, bg)
			}
		}
	})
}

func shade(r, g, b uint8, fg, bg Color) (uint8, uint8, uint8) {
	ir, ig, ib := int(r), int(g), int(b)
	avg := (ir + ig + ib) / 3
	delta := float64(abs(ir-avg)+abs(ig-avg)+abs(ib-avg)) / 510.0

	mix := float64(r) / 255.0
	invMix := 1 - mix

	duo := func(fc, bc uint8) float64 {
		return float64(fc)*mix + float64(bc)*invMix
	}

	return blend(duo(fg.R, bg.R), 255-r, delta),
		blend(duo(fg.G, bg.G), 255-g, delta),
		blend(duo(fg.B, bg.B), 255-b, delta)
}

// blend weighs the duotone value against the inverted channel by delta.
func blend(duo float64, inverted uint8, delta float64) uint8 {
	delta = min(max(delta, 0), 1)
	v := math.Round((1-delta)*duo + delta*float64(inverted))
	return uint8(min(max(v, 0), 255))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
