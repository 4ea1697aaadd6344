package layered

import (
	"image"
	"image/color"
)

// Over draws src over dst in place (Porter-Duff source-over on straight
// alpha). Both images must share the same size.
func Over(dst, src *image.NRGBA) {
	for i := 0; i+3 < len(dst.Pix) && i+3 < len(src.Pix); i += 4 {
		sa := uint32(src.Pix[i+3])
		if sa == 0 {
			continue
		}
		if sa == 255 {
			copy(dst.Pix[i:i+4], src.Pix[i:i+4])
			continue
		}
		da := uint32(dst.Pix[i+3])
		// Work in 255*255 units to stay in integers.
		outA := sa*255 + da*(255-sa)
		if outA == 0 {
			continue
		}
		for c := range 3 {
			s := uint32(src.Pix[i+c]) * sa * 255
			d := uint32(dst.Pix[i+c]) * da * (255 - sa)
			dst.Pix[i+c] = uint8((s + d + outA/2) / outA)
		}
		dst.Pix[i+3] = uint8((outA + 127) / 255)
	}
}

// Fill returns a w x h image filled with c.
func Fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// blendCoverage mixes layers into base by the alpha of coverage: RGB is
// interpolated, alpha takes the larger of base and layers.
func blendCoverage(base, layers, coverage *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(base.Rect)
	for i := 0; i < len(out.Pix); i += 4 {
		a := float64(coverage.Pix[i+3]) / 255
		for c := range 3 {
			v := float64(layers.Pix[i+c])*a + float64(base.Pix[i+c])*(1-a)
			out.Pix[i+c] = uint8(max(0, min(255, v)))
		}
		out.Pix[i+3] = max(base.Pix[i+3], layers.Pix[i+3])
	}
	return out
}
