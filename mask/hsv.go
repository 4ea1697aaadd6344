// Package mask builds soft grayscale masks used for recoloring: skin
// detection, saturation/brightness color masks, feathering and dilation.
package mask

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV holds per-pixel hue, saturation and value of an image in the 8-bit
// convention: hue 0-179 (degrees halved), saturation and value 0-255.
// Deg keeps the unquantized hue in degrees for callers that rotate hues.
type HSV struct {
	Rect    image.Rectangle
	H, S, V []uint8
	A       []uint8
	Deg     []float64
}

// NewHSV converts img. Alpha is carried along but does not affect color.
func NewHSV(img *image.NRGBA) *HSV {
	r := img.Bounds()
	n := r.Dx() * r.Dy()
	out := &HSV{
		Rect: r,
		H:    make([]uint8, n),
		S:    make([]uint8, n),
		V:    make([]uint8, n),
		A:    make([]uint8, n),
		Deg:  make([]float64, n),
	}
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for x := 0; x < r.Dx(); x++ {
			p := img.Pix[off+4*x : off+4*x+4 : off+4*x+4]
			h, s, v := PixelHSV(p[0], p[1], p[2])
			out.Deg[i] = h
			out.H[i] = uint8(int(math.Round(h/2)) % 180)
			out.S[i] = uint8(math.Round(s * 255))
			out.V[i] = uint8(math.Round(v * 255))
			out.A[i] = p[3]
			i++
		}
	}
	return out
}

// PixelHSV returns hue in degrees [0, 360) and saturation, value in [0, 1].
func PixelHSV(r, g, b uint8) (float64, float64, float64) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return c.Hsv()
}

// Width returns the number of columns.
func (h *HSV) Width() int { return h.Rect.Dx() }

// Height returns the number of rows.
func (h *HSV) Height() int { return h.Rect.Dy() }

func newGray(r image.Rectangle) *image.Gray {
	return image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
}
