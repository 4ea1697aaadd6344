package layered

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/mockup/mask"
)

const (
	recolorFeather     = 5
	protectFeather     = 7
	highSkinShare      = 0.1
	dilateKernel       = 5
	dilateIterations   = 2
	colorMaskThreshold = 128
)

// Recolorer shifts the hue of saturated background pixels toward a target
// color while leaving skin tones alone.
type Recolorer struct {
	Masks mask.SoftMasks
	Skin  *mask.SkinDetector
}

// NewRecolorer returns a recolorer tuned for template backgrounds: darker
// pixels are recolored than with the plain soft-mask defaults.
func NewRecolorer() *Recolorer {
	m := mask.NewSoftMasks()
	m.ValLow = 15
	m.FeatherRadius = recolorFeather
	return &Recolorer{Masks: m, Skin: mask.NewSkinDetector()}
}

// Recolor returns a copy of img recolored toward target.
func (r *Recolorer) Recolor(img *image.NRGBA, target color.Color) *image.NRGBA {
	hsv := mask.NewHSV(img)
	skin := mask.SkinMask(hsv, recolorFeather)
	return r.apply(img, hsv, skin, target)
}

// RecolorProtected is Recolor with a wider skin guard for merged images
// where faces cannot be isolated by layer.
func (r *Recolorer) RecolorProtected(img *image.NRGBA, target color.Color) *image.NRGBA {
	hsv := mask.NewHSV(img)
	skin := mask.SkinMask(hsv, protectFeather)
	if mask.Fraction(mask.SkinMask(hsv, 0), nil, 127, 0) > highSkinShare {
		skin = mask.Dilate(skin, dilateKernel, dilateIterations)
		skin = r.Masks.Feather(skin, protectFeather)
	}
	return r.apply(img, hsv, skin, target)
}

func (r *Recolorer) apply(img *image.NRGBA, hsv *mask.HSV, skin *image.Gray, target color.Color) *image.NRGBA {
	colorMask := r.Masks.ColorMask(hsv)

	weight := image.NewGray(colorMask.Rect)
	for i := range weight.Pix {
		w := float64(colorMask.Pix[i]) / 255 * (1 - float64(skin.Pix[i])/255)
		weight.Pix[i] = uint8(w * 255)
	}
	weight = r.Masks.Feather(weight, recolorFeather)

	shift := TargetHue(target) - DominantHue(hsv, colorMask)

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, y):]
		dst := out.Pix[out.PixOffset(0, y-b.Min.Y):]
		for x := 0; x < b.Dx(); x++ {
			p := src[4*x : 4*x+4 : 4*x+4]
			q := dst[4*x : 4*x+4 : 4*x+4]
			q[3] = p[3]
			w := float64(weight.Pix[i]) / 255
			i++
			if p[3] <= AlphaVisible || w == 0 {
				copy(q[:3], p[:3])
				continue
			}
			h, s, v := mask.PixelHSV(p[0], p[1], p[2])
			h = math.Mod(h+shift, 360)
			if h < 0 {
				h += 360
			}
			c := colorful.Hsv(h, s, v).Clamped()
			q[0] = mix(c.R*255, p[0], w)
			q[1] = mix(c.G*255, p[1], w)
			q[2] = mix(c.B*255, p[2], w)
		}
	}
	return out
}

func mix(shifted float64, orig uint8, w float64) uint8 {
	v := shifted*w + float64(orig)*(1-w)
	return uint8(max(0, min(255, v)))
}

// TargetHue returns the hue of c in degrees.
func TargetHue(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	h, _, _ := mask.PixelHSV(n.R, n.G, n.B)
	return h
}

// DominantHue is the saturation weighted circular mean hue, in degrees,
// of pixels whose color mask exceeds 128. It is 0 when no pixel qualifies.
func DominantHue(hsv *mask.HSV, colorMask *image.Gray) float64 {
	var sinSum, cosSum, total float64
	for i, m := range colorMask.Pix {
		if m <= colorMaskThreshold {
			continue
		}
		w := float64(hsv.S[i])
		rad := hsv.Deg[i] * math.Pi / 180
		sinSum += math.Sin(rad) * w
		cosSum += math.Cos(rad) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	deg := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}
