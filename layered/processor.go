package layered

import (
	"errors"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
	"github.com/setanarut/mockup/mask"
	xdraw "golang.org/x/image/draw"
)

// Options tune how layers are classified.
type Options struct {
	// Minimum skin share for a layer to be kept as a photo.
	SkinThreshold float64
	// Layers whose bounds cover more of the canvas than this are treated as
	// background even when they contain skin tones.
	MaxPhotoCoverage float64
}

func DefaultOptions() Options {
	return Options{
		SkinThreshold:    mask.DefaultPhotoThreshold,
		MaxPhotoCoverage: 0.8,
	}
}

// LayerResult records how one top-level layer rendered.
type LayerResult struct {
	Name   string
	Image  *image.NRGBA
	Method string
	Photo  bool
	Err    error
}

// Result is the assembled template together with per-layer diagnostics.
type Result struct {
	Image   *image.NRGBA
	Mode    Mode
	Product *Node
	Before  []LayerResult
	After   []LayerResult
	Failed  []LayerResult
}

// Processor assembles layered templates around a warped product.
type Processor struct {
	Recolorer  *Recolorer
	Classifier Classifier
}

func NewProcessor(opts Options) *Processor {
	r := NewRecolorer()
	return &Processor{
		Recolorer: r,
		Classifier: Classifier{
			Skin:          r.Skin,
			SkinThreshold: opts.SkinThreshold,
			MaxCoverage:   opts.MaxPhotoCoverage,
		},
	}
}

var errEmptyDocument = errors.New("layered: document has no canvas")

// Process renders doc with warped inserted at the product layer's depth.
// A nil target leaves colors untouched. warped may be nil or any size; it
// is stretched to the canvas when its size differs.
func (p *Processor) Process(doc *Document, warped *image.NRGBA, target *color.RGBA) (*Result, error) {
	if doc == nil || doc.Width <= 0 || doc.Height <= 0 {
		return nil, errEmptyDocument
	}
	w, h := doc.Width, doc.Height
	res := &Result{Product: FindProduct(doc)}

	renderer := NewRenderer(w, h)
	seenProduct := false
	for _, n := range doc.Layers {
		if !n.Visible {
			continue
		}
		if n == res.Product {
			seenProduct = true
			continue
		}
		img, method, err := renderer.Render(n)
		lr := LayerResult{Name: n.Name, Image: img, Method: method, Err: err}
		lr.Photo = p.Classifier.IsPhoto(n, img, w, h)
		switch {
		case err != nil:
			log.Printf("layered: layer %q failed: %v", n.Name, err)
			res.Failed = append(res.Failed, lr)
		case seenProduct:
			res.After = append(res.After, lr)
		default:
			res.Before = append(res.Before, lr)
		}
	}

	ok := len(res.Before) + len(res.After)
	res.Mode = SelectMode(ok, len(res.Failed))
	log.Printf("layered: rendered %d/%d layers, using %s", ok, ok+len(res.Failed), res.Mode)

	switch res.Mode {
	case ModeCompositeFallback:
		res.Image = p.compositeFallback(doc, warped, target, res.Product)
	case ModeHybrid:
		res.Image = p.hybrid(doc, res, fitCanvas(warped, w, h), target)
	default:
		res.Image = p.layerByLayer(res, fitCanvas(warped, w, h), target, w, h)
	}
	return res, nil
}

func (p *Processor) paint(dst *image.NRGBA, layers []LayerResult, target *color.RGBA) {
	for _, lr := range layers {
		Over(dst, p.maybeRecolor(lr, target))
	}
}

func (p *Processor) maybeRecolor(lr LayerResult, target *color.RGBA) *image.NRGBA {
	if target == nil || lr.Photo {
		return lr.Image
	}
	return p.Recolorer.Recolor(lr.Image, *target)
}

func (p *Processor) layerByLayer(res *Result, warped *image.NRGBA, target *color.RGBA, w, h int) *image.NRGBA {
	out := Fill(w, h, color.NRGBA{A: 255})
	p.paint(out, res.Before, target)
	Over(out, warped)
	p.paint(out, res.After, target)
	return out
}

func (p *Processor) hybrid(doc *Document, res *Result, warped *image.NRGBA, target *color.RGBA) *image.NRGBA {
	names := make([]string, len(res.Failed))
	for i, lr := range res.Failed {
		names[i] = lr.Name
	}
	log.Printf("layered: hybrid mode, failed layers: %q", names)

	base, err := p.merged(doc)
	if err != nil {
		log.Printf("layered: merged image unavailable in hybrid mode: %v", err)
		return p.layerByLayer(res, warped, target, doc.Width, doc.Height)
	}
	if target != nil {
		base = p.Recolorer.RecolorProtected(base, *target)
	}

	layers := image.NewNRGBA(doc.Bounds())
	coverage := image.NewNRGBA(doc.Bounds())
	for _, lr := range res.Before {
		Over(layers, p.maybeRecolor(lr, target))
		Over(coverage, lr.Image)
	}
	out := blendCoverage(base, layers, coverage)
	Over(out, warped)
	p.paint(out, res.After, target)
	return out
}

func (p *Processor) compositeFallback(doc *Document, warped *image.NRGBA, target *color.RGBA, product *Node) *image.NRGBA {
	w, h := doc.Width, doc.Height
	base, err := p.merged(doc)
	if err != nil {
		log.Printf("layered: merged image unavailable, product over black: %v", err)
		out := Fill(w, h, color.NRGBA{A: 255})
		Over(out, fitCanvas(warped, w, h))
		return out
	}
	if target != nil {
		base = p.Recolorer.RecolorProtected(base, *target)
	}
	Over(base, placeProduct(warped, product, w, h))
	return base
}

// merged returns the document's merged image at canvas size.
func (p *Processor) merged(doc *Document) (*image.NRGBA, error) {
	img, err := doc.Composite()
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrUnsupported
	}
	return fitCanvas(imaging.Clone(img), doc.Width, doc.Height), nil
}

// placeProduct positions warped on the canvas. A full-canvas raster is used
// as is; anything smaller is scaled into the product layer's bounds when
// they are known, or stretched over the canvas otherwise.
func placeProduct(warped *image.NRGBA, product *Node, w, h int) *image.NRGBA {
	if warped == nil {
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	if warped.Rect.Dx() == w && warped.Rect.Dy() == h {
		return warped
	}
	if product == nil || product.Bounds.Empty() {
		return fitCanvas(warped, w, h)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, product.Bounds, warped, warped.Rect, xdraw.Src, nil)
	return out
}

// fitCanvas returns img resized to w x h, or a transparent canvas for nil.
func fitCanvas(img *image.NRGBA, w, h int) *image.NRGBA {
	if img == nil {
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	if img.Rect.Dx() == w && img.Rect.Dy() == h && img.Rect.Min == (image.Point{}) {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
