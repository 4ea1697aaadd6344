// Package mockup places product images into perspective areas of template
// images and recolors layered templates to match the product.
package mockup

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/setanarut/mockup/cache"
	"github.com/setanarut/mockup/geom"
	"github.com/setanarut/mockup/imageio"
	"github.com/setanarut/mockup/layered"
	"github.com/setanarut/mockup/palette"
)

// Caches holds the engine's shared state. Any nil cache is created from
// the engine options.
type Caches struct {
	Templates    *cache.Cache[string, *image.NRGBA]
	Transformers *cache.Cache[string, *Transformer]
	Documents    *cache.Cache[string, *layered.Document]
	Colors       *cache.Cache[string, color.RGBA]
}

// Engine runs mockup operations on files, caching decoded templates,
// transformers, layered documents and product colors. It is safe for
// concurrent use.
type Engine struct {
	opts      Options
	analyzer  *palette.Analyzer
	processor *layered.Processor
	caches    Caches
}

func NewEngine(opts Options) *Engine {
	return NewEngineWithCaches(opts, Caches{})
}

func NewEngineWithCaches(opts Options, c Caches) *Engine {
	if c.Templates == nil {
		c.Templates = cache.New[string, *image.NRGBA](opts.Templates.Limit, opts.Templates.Evict)
	}
	if c.Transformers == nil {
		c.Transformers = cache.New[string, *Transformer](opts.Transformers.Limit, opts.Transformers.Evict)
	}
	if c.Documents == nil {
		c.Documents = cache.New[string, *layered.Document](opts.Documents.Limit, opts.Documents.Evict)
	}
	if c.Colors == nil {
		c.Colors = cache.New[string, color.RGBA](opts.Colors.Limit, opts.Colors.Evict)
	}
	a := palette.NewAnalyzer(opts.Clusters)
	a.Method = opts.Method
	return &Engine{
		opts:      opts,
		analyzer:  a,
		processor: layered.NewProcessor(opts.layered()),
		caches:    c,
	}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// ClearCaches drops every cached template, transformer, document and color.
func (e *Engine) ClearCaches() {
	e.caches.Templates.Clear()
	e.caches.Transformers.Clear()
	e.caches.Documents.Clear()
	e.caches.Colors.Clear()
}

// Template loads the raster of a template file. Layered templates load as
// their merged image.
func (e *Engine) Template(path string) (*image.NRGBA, error) {
	return e.caches.Templates.GetOrLoad(path, func() (*image.NRGBA, error) {
		return imageio.Load(path)
	})
}

// Document loads a layered template.
func (e *Engine) Document(path string) (*layered.Document, error) {
	return e.caches.Documents.GetOrLoad(path, func() (*layered.Document, error) {
		return imageio.LoadDocument(path)
	})
}

func transformerKey(path string, quads []geom.Quad, radius int, blend float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%g", path, radius, blend)
	for _, q := range quads {
		for _, p := range q {
			fmt.Fprintf(&b, "|%d,%d", p.X, p.Y)
		}
	}
	return b.String()
}

// Transformer returns a transformer for the template at path.
func (e *Engine) Transformer(path string, quads []geom.Quad, radius int, blend float64) (*Transformer, error) {
	key := transformerKey(path, quads, radius, blend)
	return e.caches.Transformers.GetOrLoad(key, func() (*Transformer, error) {
		tmpl, err := e.Template(path)
		if err != nil {
			return nil, err
		}
		return NewTransformer(tmpl, quads, radius, blend)
	})
}

// WarpSingle places the product at productPath into quad.
func (e *Engine) WarpSingle(templatePath string, quad geom.Quad, productPath string, radius int, blend float64) (*image.NRGBA, error) {
	t, err := e.Transformer(templatePath, []geom.Quad{quad}, radius, blend)
	if err != nil {
		return nil, err
	}
	product, err := imageio.Load(productPath)
	if err != nil {
		return nil, err
	}
	return t.Compose(product)
}

// ComposeMultiple places products into several areas. Per-area failures
// are returned alongside the image; only template and geometry problems
// fail the call.
func (e *Engine) ComposeMultiple(templatePath string, quads []geom.Quad, productPaths []string, radius int, blend float64) (*image.NRGBA, []AreaError, error) {
	t, err := e.Transformer(templatePath, quads, radius, blend)
	if err != nil {
		return nil, nil, err
	}
	img, errs := t.ComposeMultiple(productPaths)
	return img, errs, nil
}

// RecolorLayered assembles a layered template around warped, recoloring
// background layers toward target when it is not nil.
func (e *Engine) RecolorLayered(templatePath string, warped *image.NRGBA, target *color.RGBA) (*layered.Result, error) {
	doc, err := e.Document(templatePath)
	if err != nil {
		return nil, err
	}
	return e.processor.Process(doc, warped, target)
}

// DominantColor returns the dominant color of img.
func (e *Engine) DominantColor(img image.Image) color.RGBA {
	return e.analyzer.DominantColor(img)
}

// ProductColor returns the dominant color of the product file at path.
func (e *Engine) ProductColor(path string) (color.RGBA, error) {
	return e.caches.Colors.GetOrLoad(path, func() (color.RGBA, error) {
		img, err := imageio.Load(path)
		if err != nil {
			return color.RGBA{}, err
		}
		return e.analyzer.DominantColor(img), nil
	})
}

// Preview shrinks img to the configured preview size.
func (e *Engine) Preview(img *image.NRGBA) *image.NRGBA {
	return imageio.Preview(img, e.opts.PreviewSize)
}
