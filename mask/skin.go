package mask

import "image"

// SkinRange is an inclusive HSV box (8-bit convention) matching one family
// of skin tones.
type SkinRange struct {
	Name        string
	HLow, HHigh uint8
	SLow, SHigh uint8
	VLow, VHigh uint8
}

func (r SkinRange) contains(h, s, v uint8) bool {
	return h >= r.HLow && h <= r.HHigh &&
		s >= r.SLow && s <= r.SHigh &&
		v >= r.VLow && v <= r.VHigh
}

// SkinRanges covers light, medium, dark, olive and reddish complexions.
var SkinRanges = []SkinRange{
	{Name: "light", HLow: 0, HHigh: 25, SLow: 20, SHigh: 90, VLow: 180, VHigh: 255},
	{Name: "medium", HLow: 0, HHigh: 25, SLow: 30, SHigh: 100, VLow: 120, VHigh: 220},
	{Name: "dark", HLow: 0, HHigh: 30, SLow: 30, SHigh: 100, VLow: 50, VHigh: 160},
	{Name: "olive", HLow: 15, HHigh: 35, SLow: 25, SHigh: 90, VLow: 100, VHigh: 200},
	{Name: "reddish", HLow: 0, HHigh: 15, SLow: 40, SHigh: 100, VLow: 100, VHigh: 230},
}

const (
	DefaultSkinFeather    = 5
	DefaultPhotoThreshold = 0.035
)

// IsSkinColor reports whether an 8-bit HSV triple falls in any skin range.
func IsSkinColor(h, s, v uint8) bool {
	for _, r := range SkinRanges {
		if r.contains(h, s, v) {
			return true
		}
	}
	return false
}

// SkinDetector finds skin-toned pixels so they can be kept out of recoloring.
type SkinDetector struct {
	// Gaussian feather radius applied to the mask; 0 keeps it binary.
	FeatherRadius int
}

func NewSkinDetector() *SkinDetector {
	return &SkinDetector{FeatherRadius: DefaultSkinFeather}
}

// Mask returns a 0-255 skin mask feathered with the detector radius.
func (d *SkinDetector) Mask(img *image.NRGBA) *image.Gray {
	return d.MaskWithRadius(img, d.FeatherRadius)
}

// MaskWithRadius is Mask with an explicit feather radius.
func (d *SkinDetector) MaskWithRadius(img *image.NRGBA, radius int) *image.Gray {
	return SkinMask(NewHSV(img), radius)
}

// SkinMask builds the skin mask from a precomputed conversion.
func SkinMask(hsv *HSV, radius int) *image.Gray {
	m := newGray(hsv.Rect)
	for i := range hsv.H {
		if IsSkinColor(hsv.H[i], hsv.S[i], hsv.V[i]) {
			m.Pix[i] = 255
		}
	}
	if radius > 0 {
		return Blur(m, radius)
	}
	return m
}

// Percentage returns the share of visible pixels (alpha > 127) that are skin.
func (d *SkinDetector) Percentage(img *image.NRGBA) float64 {
	hsv := NewHSV(img)
	return Fraction(SkinMask(hsv, 0), hsv.A, 127, 127)
}

// IsPhoto reports whether the skin share of img reaches threshold.
func (d *SkinDetector) IsPhoto(img *image.NRGBA, threshold float64) bool {
	return d.Percentage(img) >= threshold
}
