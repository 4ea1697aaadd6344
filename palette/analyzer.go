// Package palette extracts dominant colors and palettes from product images.
package palette

import (
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the clustering backend used to find the dominant color.
type Method int

const (
	MethodSeededKMeans Method = iota
	MethodKMeans
	MethodDominantColor
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominantColor:
		return "dominantcolor"
	default:
		return "seeded-kmeans"
	}
}

// ParseMethod maps a name produced by Method.String back to a Method.
func ParseMethod(s string) (Method, bool) {
	for _, m := range []Method{MethodSeededKMeans, MethodKMeans, MethodDominantColor} {
		if m.String() == s {
			return m, true
		}
	}
	return MethodSeededKMeans, false
}

// Neutral is returned when an image carries no usable color.
var Neutral = color.RGBA{R: 128, G: 128, B: 128, A: 255}

const (
	maxAnalysisSize = 150

	valueLow      = 10  // near-black pixels are ignored
	valueHigh     = 245 // near-white pixels are ignored
	saturationMin = 10  // near-gray pixels are ignored

	lowMeanSaturation   = 15
	minResultSaturation = 20
	boostMeanSaturation = 30
	boostSaturation     = minResultSaturation + 3

	minClusterPixels = 10

	DefaultClusters = 5
	DefaultSeed     = 42
)

// Analyzer finds the dominant color of an image while ignoring near-black,
// near-white and near-gray pixels.
type Analyzer struct {
	// Upper bound for the number of clusters.
	Clusters int
	Method   Method
	// Seed for MethodSeededKMeans.
	Seed uint64
}

func NewAnalyzer(k int) *Analyzer {
	if k <= 0 {
		k = DefaultClusters
	}
	return &Analyzer{Clusters: k, Method: MethodSeededKMeans, Seed: DefaultSeed}
}

type hsvPixel struct {
	rgb  [3]uint8
	h    float64 // degrees
	s, v float64 // 0-255
}

// DominantColor returns the center of the most populated color cluster, or
// Neutral when the image is mostly colorless.
func (a *Analyzer) DominantColor(img image.Image) color.RGBA {
	small := downscale(img, maxAnalysisSize)
	b := small.Bounds()
	if b.Empty() {
		return Neutral
	}

	all := make([]hsvPixel, 0, b.Dx()*b.Dy())
	sumS := 0.0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := small.Pix[small.PixOffset(x, y):]
			c := colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
			h, s, v := c.Hsv()
			hp := hsvPixel{rgb: [3]uint8{p[0], p[1], p[2]}, h: h, s: s * 255, v: v * 255}
			all = append(all, hp)
			sumS += hp.s
		}
	}
	meanS := sumS / float64(len(all))
	if meanS < lowMeanSaturation {
		return Neutral
	}

	filtered := make([][3]uint8, 0, len(all))
	for _, p := range all {
		if p.v < valueLow || p.v > valueHigh || p.s < saturationMin {
			continue
		}
		filtered = append(filtered, p.rgb)
	}
	if len(filtered) < minClusterPixels {
		return Neutral
	}

	result, ok := a.cluster(filtered)
	if !ok {
		return Neutral
	}

	rc := colorful.Color{R: float64(result.R) / 255, G: float64(result.G) / 255, B: float64(result.B) / 255}
	h, s, v := rc.Hsv()
	if s*255 < minResultSaturation && meanS >= boostMeanSaturation {
		r, g, bl := colorful.Hsv(h, boostSaturation/255.0, v).RGB255()
		result = color.RGBA{R: r, G: g, B: bl, A: 255}
	}
	return result
}

func (a *Analyzer) cluster(pixels [][3]uint8) (color.RGBA, bool) {
	unique := make(map[[3]uint8]struct{})
	for _, p := range pixels {
		unique[p] = struct{}{}
	}
	k := min(max(1, a.Clusters), len(unique))
	if k == 1 {
		p := pixels[0]
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}, true
	}

	if a.Method == MethodDominantColor {
		return dominantOf(pixels, k)
	}

	obs := make(clusters.Observations, len(pixels))
	for i, p := range pixels {
		obs[i] = clusters.Coordinates{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255}
	}
	var cc clusters.Clusters
	if a.Method == MethodKMeans {
		var err error
		cc, err = kmeans.New().Partition(obs, k)
		if err != nil {
			return color.RGBA{}, false
		}
	} else {
		cc = seededPartition(obs, k, a.Seed)
	}
	c, ok := largest(cc)
	if !ok || len(c.Center) < 3 {
		return color.RGBA{}, false
	}
	return color.RGBA{
		R: roundByte(c.Center[0] * 255),
		G: roundByte(c.Center[1] * 255),
		B: roundByte(c.Center[2] * 255),
		A: 255,
	}, true
}

func dominantOf(pixels [][3]uint8, k int) (color.RGBA, bool) {
	// Square tile; the tail repeats pixels from the start.
	side := int(math.Ceil(math.Sqrt(float64(len(pixels)))))
	strip := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := range side * side {
		p := pixels[i%len(pixels)]
		strip.Pix[4*i] = p[0]
		strip.Pix[4*i+1] = p[1]
		strip.Pix[4*i+2] = p[2]
		strip.Pix[4*i+3] = 255
	}
	found := dominantcolor.FindWeight(strip, k)
	if len(found) == 0 {
		return color.RGBA{}, false
	}
	best := found[0]
	for _, c := range found[1:] {
		if c.Weight > best.Weight {
			best = c
		}
	}
	best.RGBA.A = 255
	return best.RGBA, true
}

// downscale shrinks img so neither side exceeds size.
func downscale(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return imaging.Clone(img)
	}
	scale := float64(size) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

func roundByte(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
