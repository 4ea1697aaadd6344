package mockup

import (
	"context"
	"image"
	"image/color"
	"log"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/setanarut/mockup/batch"
	"github.com/setanarut/mockup/geom"
	"github.com/setanarut/mockup/imageio"
)

// Job describes one card: a template, its product areas and the products
// to place in them.
type Job struct {
	Template string
	// Quads lists the product areas. When empty the default area for the
	// template's card size is used.
	Quads    []geom.Quad
	Products []string
	Radius   int
	Blend    float64
	// AddProduct places the products. When false the template is rendered
	// on its own.
	AddProduct bool
	// ChangeColor recolors layered templates toward the first product's
	// dominant color.
	ChangeColor bool
	// Output is the file RenderBatch writes the card to.
	Output string
}

// NewJob returns a job using the engine's default radius and blend.
func (e *Engine) NewJob(template string, products ...string) Job {
	return Job{
		Template:    template,
		Products:    products,
		Radius:      e.opts.Radius,
		Blend:       e.opts.Blend,
		AddProduct:  true,
		ChangeColor: true,
	}
}

func (e *Engine) jobQuads(j Job) ([]geom.Quad, error) {
	if len(j.Quads) > 0 {
		return j.Quads, nil
	}
	tmpl, err := e.Template(j.Template)
	if err != nil {
		return nil, err
	}
	b := tmpl.Bounds()
	q := geom.Placement(b.Dx(), b.Dy(), DetectCardType(tmpl, j.Template))
	return []geom.Quad{q}, nil
}

// Render produces the card for j. Flat templates get the products
// composited in; layered templates are reassembled around them.
func (e *Engine) Render(j Job) (*image.NRGBA, []AreaError, error) {
	quads, err := e.jobQuads(j)
	if err != nil {
		return nil, nil, err
	}
	t, err := e.Transformer(j.Template, quads, j.Radius, j.Blend)
	if err != nil {
		return nil, nil, err
	}
	products := nonEmpty(j.Products)

	if !imageio.IsLayered(j.Template) {
		if !j.AddProduct || len(products) == 0 {
			return imaging.Clone(t.Template()), nil, nil
		}
		img, errs := t.ComposeMultiple(j.Products)
		return img, errs, nil
	}

	var warped *image.NRGBA
	var errs []AreaError
	if j.AddProduct && len(products) > 0 {
		warped, errs = t.WarpedProducts(j.Products)
	}
	var target *color.RGBA
	if j.ChangeColor && len(products) > 0 {
		c, err := e.ProductColor(products[0])
		if err != nil {
			log.Printf("mockup: product color: %v", err)
		} else {
			target = &c
		}
	}
	res, err := e.RecolorLayered(j.Template, warped, target)
	if err != nil {
		return nil, errs, err
	}
	return res.Image, errs, nil
}

func (e *Engine) renderTo(j Job) error {
	img, errs, err := e.Render(j)
	if err != nil {
		return err
	}
	for _, ae := range errs {
		log.Printf("mockup: %s: %v", filepath.Base(j.Output), ae)
	}
	return imageio.Save(img, j.Output)
}

// RenderBatch renders every job to its Output on up to workers goroutines.
func (e *Engine) RenderBatch(ctx context.Context, jobs []Job, workers int) batch.Result {
	labels := make([]string, len(jobs))
	for i, j := range jobs {
		labels[i] = filepath.Base(j.Output)
	}
	return e.renderJobs(ctx, jobs, labels, batch.Pool{Workers: workers})
}

func (e *Engine) renderJobs(ctx context.Context, jobs []Job, labels []string, pool batch.Pool) batch.Result {
	return pool.Run(ctx, labels, func(_ context.Context, i int) error {
		return e.renderTo(jobs[i])
	})
}

// RenderFolder renders one card per image in inputDir, using job as the
// template for each, and writes them into outputDir. Total counts every
// entry of inputDir; Skipped counts regular files that are not supported
// images.
func (e *Engine) RenderFolder(ctx context.Context, job Job, inputDir, outputDir string, progress batch.ProgressFunc) (batch.Result, error) {
	l, err := imageio.ListImages(inputDir)
	if err != nil {
		return batch.Result{}, err
	}
	files := l.Images
	jobs := make([]Job, len(files))
	labels := make([]string, len(files))
	for i, f := range files {
		labels[i] = filepath.Base(f)
		j := job
		j.Products = []string{f}
		j.Output = filepath.Join(outputDir, imageio.OutputName(f))
		jobs[i] = j
	}
	res := e.renderJobs(ctx, jobs, labels, batch.Pool{Workers: e.opts.Workers, Progress: progress})
	res.Total = l.Entries
	res.Skipped = l.Others
	return res, nil
}
