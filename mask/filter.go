package mask

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// SigmaForRadius returns the gaussian sigma matching a (2r+1) kernel.
func SigmaForRadius(radius int) float64 {
	ksize := 2*radius + 1
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}

// Blur applies a gaussian blur with a (2r+1) kernel. radius <= 0 returns a copy.
func Blur(m *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return cloneGray(m)
	}
	return BlurSigma(m, SigmaForRadius(radius))
}

// BlurSigma blurs m with the given sigma.
func BlurSigma(m *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 || m.Rect.Empty() {
		return cloneGray(m)
	}
	blurred := imaging.Blur(m, sigma)
	out := image.NewGray(image.Rect(0, 0, m.Rect.Dx(), m.Rect.Dy()))
	for y := range out.Rect.Dy() {
		src := blurred.Pix[y*blurred.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := range out.Rect.Dx() {
			dst[x] = src[4*x]
		}
	}
	return out
}

// Dilate grows bright regions using a disk shaped maximum filter.
func Dilate(m *image.Gray, ksize, iterations int) *image.Gray {
	out := cloneGray(m)
	if ksize < 3 || iterations <= 0 {
		return out
	}
	g := gift.New(gift.Maximum(ksize, true))
	for range iterations {
		dst := image.NewGray(g.Bounds(out.Bounds()))
		g.Draw(dst, out)
		out = dst
	}
	return out
}

// Fraction returns the share of pixels above level among pixels whose
// alpha exceeds alphaMin. alpha may be nil to count every pixel.
func Fraction(m *image.Gray, alpha []uint8, level, alphaMin uint8) float64 {
	total, hit := 0, 0
	w := m.Rect.Dx()
	for y := range m.Rect.Dy() {
		row := m.Pix[y*m.Stride:]
		for x := range w {
			if alpha != nil && alpha[y*w+x] <= alphaMin {
				continue
			}
			total++
			if row[x] > level {
				hit++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}

func cloneGray(m *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Rect.Dx(), m.Rect.Dy()))
	for y := range out.Rect.Dy() {
		copy(out.Pix[y*out.Stride:y*out.Stride+out.Rect.Dx()], m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y):])
	}
	return out
}
