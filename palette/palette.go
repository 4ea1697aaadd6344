package palette

import (
	"image"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type weighted struct {
	col colorful.Color
	w   float64
}

// Extract returns up to k visually distinct colors of img, strongest first.
// Fully transparent pixels are ignored.
func Extract(img image.Image, k int, method Method) []colorful.Color {
	if k <= 0 {
		return nil
	}
	switch method {
	case MethodDominantColor:
		return fromDominant(img, k)
	default:
		p := fromClusters(img, k, method)
		if len(p) != 0 {
			return p
		}
		log.Printf("palette: %s produced no colors, falling back to dominantcolor", method)
		return fromDominant(img, k)
	}
}

// SortByBrightness orders colors from darkest to brightest by relative luminance.
func SortByBrightness(p []colorful.Color) {
	lum := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortFunc(p, func(a, b colorful.Color) int {
		la, lb := lum(a), lum(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// Swatch renders p as a strip of square tiles.
func Swatch(p []colorful.Color, tile int) *image.NRGBA {
	if tile <= 0 {
		tile = 64
	}
	img := image.NewNRGBA(image.Rect(0, 0, max(1, tile*len(p)), tile))
	for i, c := range p {
		r, g, b := c.Clamped().RGB255()
		fill := color.NRGBA{R: r, G: g, B: b, A: 255}
		for y := range tile {
			for x := i * tile; x < (i+1)*tile; x++ {
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}

func fromDominant(img image.Image, k int) []colorful.Color {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	if len(found) == 0 {
		return []colorful.Color{{R: 0.5, G: 0.5, B: 0.5}}
	}
	cands := make([]weighted, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, weighted{col: col.Clamped(), w: max(c.Weight, 1e-6)})
	}
	return diverse(cands, k)
}

func fromClusters(img image.Image, k int, method Method) []colorful.Color {
	small := downscale(img, maxAnalysisSize)
	b := small.Bounds()
	obs := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := small.Pix[small.PixOffset(x, y):]
			if p[3] == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	// Over-cluster, then keep the most distinct centers.
	work := min(max(k*4, k+2), len(obs))
	var cc clusters.Clusters
	if method == MethodKMeans {
		var err error
		if cc, err = kmeans.New().Partition(obs, work); err != nil {
			return nil
		}
	} else {
		cc = seededPartition(obs, work, DefaultSeed)
	}

	cands := make([]weighted, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		cands = append(cands, weighted{col: col.Clamped(), w: float64(len(c.Observations))})
	}
	return diverse(cands, k)
}

// diverse greedily picks k candidates, starting from the heaviest and then
// preferring colors far (in Lab) from those already picked, scaled by weight.
func diverse(cands []weighted, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	labs := make([][3]float64, len(cands))
	maxW := 0.0
	first := 0
	for i, c := range cands {
		l, a, b := c.col.Lab()
		labs[i] = [3]float64{l, a, b}
		if c.w > maxW {
			maxW = c.w
			first = i
		}
	}

	picked := []int{first}
	used := make([]bool, len(cands))
	used[first] = true
	for len(picked) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, j := range picked {
				d0 := labs[i][0] - labs[j][0]
				d1 := labs[i][1] - labs[j][1]
				d2 := labs[i][2] - labs[j][2]
				nearest = min(nearest, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(nearest) * (0.55 + 0.45*math.Sqrt(cands[i].w/maxW))
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
		if bestIdx < 0 {
			break
		}
		used[bestIdx] = true
		picked = append(picked, bestIdx)
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx].col
	}
	return out
}
