package mockup

import (
	"fmt"
	"image"
	"log"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/setanarut/mockup/geom"
	"github.com/setanarut/mockup/imageio"
)

// Sigma of the blur applied to warped alpha when corners are rounded.
const edgeSigma = 0.5

// Products with no pixel above this alpha are not color blended.
const blendMinAlpha = 10

// Transformer places product images into the quadrilateral areas of one
// template.
type Transformer struct {
	template *image.NRGBA
	quads    []geom.Quad
	radius   int
	blend    float64

	// Load reads product files for the path based methods.
	Load func(path string) (*image.NRGBA, error)
}

// NewTransformer validates every quad against the template size.
func NewTransformer(template *image.NRGBA, quads []geom.Quad, radius int, blend float64) (*Transformer, error) {
	if template == nil || template.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty template", ErrDecode)
	}
	if len(quads) == 0 {
		return nil, fmt.Errorf("%w: no point sets", ErrValidation)
	}
	if template.Rect.Min != (image.Point{}) {
		template = imaging.Clone(template)
	}
	w, h := template.Rect.Dx(), template.Rect.Dy()
	for i, q := range quads {
		if err := q.Validate(w, h); err != nil {
			return nil, fmt.Errorf("point set %d: %w", i, err)
		}
	}
	return &Transformer{
		template: template,
		quads:    quads,
		radius:   max(radius, 0),
		blend:    blend,
		Load:     imageio.Load,
	}, nil
}

// Template returns the template raster. Callers must not modify it.
func (t *Transformer) Template() *image.NRGBA { return t.template }

// Quads returns the destination areas.
func (t *Transformer) Quads() []geom.Quad { return t.quads }

// Warp maps product onto quad and returns a transparent template-sized
// raster holding only the product.
func (t *Transformer) Warp(product *image.NRGBA, quad geom.Quad) (*image.NRGBA, error) {
	if product == nil || product.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty product", ErrDecode)
	}
	src := imaging.Clone(product)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if t.radius > 0 {
		roundCorners(src, t.radius)
	}

	hm, err := geom.RectToQuad(w, h, quad)
	if err != nil {
		return nil, err
	}
	inv, err := hm.Inverse()
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(image.Rect(0, 0, t.template.Rect.Dx(), t.template.Rect.Dy()))
	area := quad.Bounds().Intersect(out.Rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			sx, sy, ok := inv.Apply(float64(x), float64(y))
			if !ok {
				continue
			}
			i := out.PixOffset(x, y)
			sample(src, sx, sy, out.Pix[i:i+4])
		}
	}
	if t.radius > 0 {
		softenAlpha(out, edgeSigma)
	}
	return out, nil
}

// sample reads src at (x, y) with bilinear interpolation. Neighbours
// outside src count as transparent black.
func sample(src *image.NRGBA, x, y float64, dst []uint8) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if x <= -1 || y <= -1 || x >= float64(w) || y >= float64(h) {
		return
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	var acc [4]float64
	for j := range 2 {
		py := y0 + j
		if py < 0 || py >= h {
			continue
		}
		wy := 1 - fy
		if j == 1 {
			wy = fy
		}
		for i := range 2 {
			px := x0 + i
			if px < 0 || px >= w {
				continue
			}
			wx := 1 - fx
			if i == 1 {
				wx = fx
			}
			wt := wx * wy
			p := src.Pix[py*src.Stride+4*px:]
			for c := range 4 {
				acc[c] += wt * float64(p[c])
			}
		}
	}
	for c := range 4 {
		dst[c] = uint8(min(acc[c]+0.5, 255))
	}
}

// Blend mixes the mean color of reference's centre region into product's
// RGB. product is returned as is when strength <= 0 or it has no visible
// pixels.
func Blend(product, reference *image.NRGBA, strength float64) *image.NRGBA {
	if strength <= 0 || !anyAlphaAbove(product, blendMinAlpha) {
		return product
	}
	avg, ok := centreMean(reference)
	if !ok {
		return product
	}
	out := imaging.Clone(product)
	keep := 1 - strength
	for i := 0; i < len(out.Pix); i += 4 {
		for c := range 3 {
			v := float64(out.Pix[i+c])*keep + avg[c]*strength
			out.Pix[i+c] = uint8(max(0, min(v, 255)))
		}
	}
	return out
}

func anyAlphaAbove(img *image.NRGBA, level uint8) bool {
	b := img.Rect
	for y := range b.Dy() {
		row := img.Pix[y*img.Stride:]
		for x := range b.Dx() {
			if row[4*x+3] > level {
				return true
			}
		}
	}
	return false
}

// centreMean averages the RGB of the central quarter-size region of img.
func centreMean(img *image.NRGBA) ([3]float64, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	cy, cx := h/2, w/2
	sh, sw := h/8, w/8
	y0, y1 := max(0, cy-sh), min(h, cy+sh)
	x0, x1 := max(0, cx-sw), min(w, cx+sw)
	var sum [3]float64
	n := 0
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride:]
		for x := x0; x < x1; x++ {
			for c := range 3 {
				sum[c] += float64(row[4*x+c])
			}
			n++
		}
	}
	if n == 0 {
		return sum, false
	}
	for c := range sum {
		sum[c] /= float64(n)
	}
	return sum, true
}

// composite draws fg over dst in place using fg's alpha. dst keeps its
// own alpha.
func composite(dst, fg *image.NRGBA) {
	w, h := min(dst.Rect.Dx(), fg.Rect.Dx()), min(dst.Rect.Dy(), fg.Rect.Dy())
	for y := range h {
		d := dst.Pix[y*dst.Stride:]
		s := fg.Pix[y*fg.Stride:]
		for x := range w {
			i := 4 * x
			if s[i+3] == 0 {
				continue
			}
			a := float64(s[i+3]) / 255
			for c := range 3 {
				d[i+c] = uint8(a*float64(s[i+c]) + (1-a)*float64(d[i+c]))
			}
		}
	}
}

// Compose places product into the first area of the template.
func (t *Transformer) Compose(product *image.NRGBA) (*image.NRGBA, error) {
	warped, err := t.WarpedProduct(product)
	if err != nil {
		return nil, err
	}
	out := imaging.Clone(t.template)
	composite(out, warped)
	return out, nil
}

// WarpedProduct warps product into the first area and blends it against
// the template without compositing.
func (t *Transformer) WarpedProduct(product *image.NRGBA) (*image.NRGBA, error) {
	warped, err := t.Warp(product, t.quads[0])
	if err != nil {
		return nil, err
	}
	return Blend(warped, t.template, t.blend), nil
}

// pick returns the product path for area i. An empty paths[i] falls back to
// the non-empty paths in turn; "" means the area stays empty.
func pick(paths, valid []string, i int) string {
	if i < len(paths) && paths[i] != "" {
		return paths[i]
	}
	if len(valid) > 0 {
		return valid[i%len(valid)]
	}
	return ""
}

func nonEmpty(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t *Transformer) warpPath(path string, quad geom.Quad) (*image.NRGBA, error) {
	load := t.Load
	if load == nil {
		load = imageio.Load
	}
	product, err := load(path)
	if err != nil {
		return nil, err
	}
	return t.Warp(product, quad)
}

// ComposeMultiple places one product per area. paths[i] goes to area i;
// areas without a path cycle through the given paths. Areas that fail are
// reported and the rest are still rendered.
func (t *Transformer) ComposeMultiple(paths []string) (*image.NRGBA, []AreaError) {
	out := imaging.Clone(t.template)
	valid := nonEmpty(paths)
	var errs []AreaError
	for i, q := range t.quads {
		path := pick(paths, valid, i)
		if path == "" {
			continue
		}
		warped, err := t.warpPath(path, q)
		if err != nil {
			log.Printf("mockup: area %d: %v", i, err)
			errs = append(errs, AreaError{Label: filepath.Base(path), Message: err.Error()})
			continue
		}
		composite(out, Blend(warped, out, t.blend))
	}
	return out, errs
}

// WarpedProducts warps one product per area, using the same assignment as
// ComposeMultiple, onto a single transparent raster. Overlapping alphas
// keep the larger value.
func (t *Transformer) WarpedProducts(paths []string) (*image.NRGBA, []AreaError) {
	out := image.NewNRGBA(image.Rect(0, 0, t.template.Rect.Dx(), t.template.Rect.Dy()))
	valid := nonEmpty(paths)
	if len(valid) == 0 {
		return out, nil
	}
	var errs []AreaError
	for i, q := range t.quads {
		path := pick(paths, valid, i)
		warped, err := t.warpPath(path, q)
		if err != nil {
			log.Printf("mockup: area %d: %v", i, err)
			errs = append(errs, AreaError{Label: filepath.Base(path), Message: err.Error()})
			continue
		}
		warped = Blend(warped, t.template, t.blend)
		composite(out, warped)
		for j := 3; j < len(out.Pix); j += 4 {
			out.Pix[j] = max(out.Pix[j], warped.Pix[j])
		}
	}
	return out, errs
}
