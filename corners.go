package mockup

import (
	"image"

	"github.com/setanarut/mockup/mask"
	"golang.org/x/image/vector"
)

// Cubic bezier handle length for a quarter circle.
const kappa = 0.5523

// Corner radii are given relative to a 2000 px side.
const radiusBase = 2000.0

// scaledRadius converts a template radius to pixels for a w x h product.
func scaledRadius(radius, w, h int) int {
	r := int(float64(radius) / radiusBase * float64(min(w, h)))
	r = max(r, 3)
	return min(r, w/2, h/2)
}

// roundedMask rasterizes an anti-aliased w x h rounded rectangle.
func roundedMask(w, h, r int) *image.Gray {
	z := vector.NewRasterizer(w, h)
	fw, fh, fr := float32(w), float32(h), float32(r)
	k := fr * (1 - kappa)
	z.MoveTo(fr, 0)
	z.LineTo(fw-fr, 0)
	z.CubeTo(fw-k, 0, fw, k, fw, fr)
	z.LineTo(fw, fh-fr)
	z.CubeTo(fw, fh-k, fw-k, fh, fw-fr, fh)
	z.LineTo(fr, fh)
	z.CubeTo(k, fh, 0, fh-k, 0, fh-fr)
	z.LineTo(0, fr)
	z.CubeTo(0, k, k, 0, fr, 0)
	z.ClosePath()

	a := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(a, a.Rect, image.Opaque, image.Point{})
	g := &image.Gray{Pix: a.Pix, Stride: a.Stride, Rect: a.Rect}
	return mask.Blur(g, 1)
}

// roundCorners multiplies img's alpha by a rounded rectangle mask in place.
// img must start at the origin.
func roundCorners(img *image.NRGBA, radius int) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if radius <= 0 || w == 0 || h == 0 {
		return
	}
	m := roundedMask(w, h, scaledRadius(radius, w, h))
	for y := range h {
		row := img.Pix[y*img.Stride:]
		mrow := m.Pix[y*m.Stride:]
		for x := range w {
			i := 4*x + 3
			row[i] = uint8(uint32(row[i]) * uint32(mrow[x]) / 255)
		}
	}
}

// softenAlpha blurs the alpha channel of img in place.
func softenAlpha(img *image.NRGBA, sigma float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	a := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		row := img.Pix[y*img.Stride:]
		for x := range w {
			a.Pix[y*a.Stride+x] = row[4*x+3]
		}
	}
	a = mask.BlurSigma(a, sigma)
	for y := range h {
		row := img.Pix[y*img.Stride:]
		for x := range w {
			row[4*x+3] = a.Pix[y*a.Stride+x]
		}
	}
}
