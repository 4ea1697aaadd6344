package mask

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// EdgeLevel is the Sobel magnitude above which a pixel counts as an edge.
const EdgeLevel = 40

// Edges returns a binary edge map of img: smoothed gray levels, Sobel
// magnitude thresholded at EdgeLevel, dilated twice with a 3x3 kernel to
// close small gaps in outlines.
func Edges(img image.Image) *image.Gray {
	g := gift.New(
		gift.Grayscale(),
		gift.GaussianBlur(float32(SigmaForRadius(2))),
		gift.Sobel(),
	)
	mag := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(mag, img)
	for i, v := range mag.Pix {
		if v > EdgeLevel {
			mag.Pix[i] = 255
		} else {
			mag.Pix[i] = 0
		}
	}
	return Dilate(mag, 3, 2)
}

// LargestRegionAspect finds the largest 8-connected region of set pixels in
// m and returns the long/short side ratio of its minimum-area bounding
// rectangle. ok is false when m has no region or the rectangle is flat.
func LargestRegionAspect(m *image.Gray) (aspect float64, ok bool) {
	boundary := largestRegionBoundary(m)
	if len(boundary) == 0 {
		return 0, false
	}
	w, h := minAreaRect(boundary)
	if h == 0 || w == 0 {
		return 0, false
	}
	return max(w, h) / min(w, h), true
}

// largestRegionBoundary labels the regions of m and returns the boundary
// pixels of the one with the most pixels.
func largestRegionBoundary(m *image.Gray) []image.Point {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	set := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && m.Pix[y*m.Stride+x] > 127
	}
	seen := make([]bool, w*h)
	var best []image.Point
	bestSize := 0
	var stack []image.Point
	for y := range h {
		for x := range w {
			if seen[y*w+x] || !set(x, y) {
				continue
			}
			seen[y*w+x] = true
			stack = append(stack[:0], image.Pt(x, y))
			size := 0
			var edge []image.Point
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				if !set(p.X-1, p.Y) || !set(p.X+1, p.Y) || !set(p.X, p.Y-1) || !set(p.X, p.Y+1) {
					edge = append(edge, p)
				}
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if set(nx, ny) && !seen[ny*w+nx] {
							seen[ny*w+nx] = true
							stack = append(stack, image.Pt(nx, ny))
						}
					}
				}
			}
			if size > bestSize {
				bestSize, best = size, edge
			}
		}
	}
	return best
}

// minAreaRect returns the sides of the smallest rectangle enclosing pts,
// searching rotations in one degree steps.
func minAreaRect(pts []image.Point) (w, h float64) {
	bestArea := math.Inf(1)
	for deg := range 90 {
		sin, cos := math.Sincos(float64(deg) * math.Pi / 180)
		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range pts {
			x, y := float64(p.X), float64(p.Y)
			u := x*cos + y*sin
			v := -x*sin + y*cos
			minU, maxU = min(minU, u), max(maxU, u)
			minV, maxV = min(minV, v), max(maxV, v)
		}
		du, dv := maxU-minU, maxV-minV
		if a := du * dv; a < bestArea {
			bestArea, w, h = a, du, dv
		}
	}
	return w, h
}
