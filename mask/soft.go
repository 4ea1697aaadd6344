package mask

import (
	"image"
	"math"
)

const minFeatherRadius = 3

// SoftMasks produces color masks with sigmoid falloff instead of hard
// thresholds, so recolored areas fade in without banding.
type SoftMasks struct {
	// Saturation (0-255) above which a pixel counts as colored.
	SatThreshold float64
	// Brightness (0-255) below which a pixel is too dark to recolor.
	ValLow float64
	// Brightness (0-255) above which a pixel is too bright to recolor.
	ValHigh float64
	// Sigmoid transition width. Larger values give softer edges.
	FalloffWidth float64
	// Feather radius, never below 3.
	FeatherRadius int
}

func NewSoftMasks() SoftMasks {
	return SoftMasks{
		SatThreshold:  50,
		ValLow:        30,
		ValHigh:       245,
		FalloffWidth:  20,
		FeatherRadius: minFeatherRadius,
	}
}

// Sigmoid is 1/(1+exp(-(value-threshold)/width)). Non-positive widths are
// treated as 1.
func Sigmoid(value, threshold, width float64) float64 {
	if width <= 0 {
		width = 1
	}
	x := (value - threshold) / width
	x = max(-500, min(500, x))
	return 1 / (1 + math.Exp(-x))
}

// ColorMask weights each pixel by how saturated it is and how far its
// brightness sits from both extremes. 255 marks a fully recolorable pixel.
func (g SoftMasks) ColorMask(hsv *HSV) *image.Gray {
	m := newGray(hsv.Rect)
	for i := range hsv.S {
		s := float64(hsv.S[i])
		v := float64(hsv.V[i])
		w := Sigmoid(s, g.SatThreshold, g.FalloffWidth) *
			Sigmoid(v, g.ValLow, g.FalloffWidth) *
			(1 - Sigmoid(v, g.ValHigh, g.FalloffWidth))
		m.Pix[i] = uint8(max(0, min(255, w*255)))
	}
	return m
}

// Feather blurs mask edges. radius <= 0 uses the configured radius; the
// result is never blurred with a radius below 3.
func (g SoftMasks) Feather(m *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		radius = g.FeatherRadius
	}
	return Blur(m, max(minFeatherRadius, radius))
}
