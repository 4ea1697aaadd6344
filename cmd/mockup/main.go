package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/setanarut/mockup"
	"github.com/setanarut/mockup/config"
	"github.com/setanarut/mockup/imageio"
	"github.com/setanarut/mockup/palette"
)

const usage = `usage: mockup <command> [flags]

commands:
  render   place products into a template and save the card
  batch    render one card per image in a folder
  color    print the dominant color of an image
  palette  save a palette swatch of an image
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "render":
		err = runRender(cfg, args)
	case "batch":
		err = runBatch(cfg, args)
	case "color":
		err = runColor(cfg, args)
	case "palette":
		err = runPalette(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// jobFlags registers the flags shared by render and batch.
func jobFlags(fs *flag.FlagSet, cfg *config.Config) (*mockup.Job, *quadList) {
	j := &mockup.Job{}
	quads := &quadList{}
	fs.StringVar(&j.Template, "template", "", "template image or layered document")
	fs.Var(quads, "quad", "product area x1,y1,x2,y2,x3,y3,x4,y4 (repeatable, defaults by card size)")
	fs.IntVar(&j.Radius, "radius", cfg.Options.Radius, "corner radius relative to a 2000 px side")
	fs.Float64Var(&j.Blend, "blend", cfg.Options.Blend, "template color blend strength")
	fs.BoolVar(&j.AddProduct, "product", true, "place the product")
	fs.BoolVar(&j.ChangeColor, "recolor", true, "recolor layered templates toward the product")
	return j, quads
}

func runRender(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	j, quads := jobFlags(fs, cfg)
	var products pathList
	fs.Var(&products, "product-file", "product image per area (repeatable, - skips an area)")
	fs.StringVar(&j.Output, "output", "", "output file (defaults to the output dir)")
	preview := fs.Bool("preview", false, "shrink the card to the preview size")
	fs.Parse(args)
	if j.Template == "" {
		fs.Usage()
		return fmt.Errorf("render: -template is required")
	}
	j.Quads = *quads
	j.Products = products
	if j.Output == "" {
		j.Output = filepath.Join(cfg.OutputDir, imageio.OutputName(j.Template))
	}

	e := mockup.NewEngine(cfg.Options)
	img, errs, err := e.Render(*j)
	if err != nil {
		return err
	}
	for _, ae := range errs {
		log.Printf("area failed: %v", ae)
	}
	if *preview {
		img = e.Preview(img)
	}
	if err := imageio.Save(img, j.Output); err != nil {
		return err
	}
	log.Printf("saved %s", j.Output)
	return nil
}

func runBatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	j, quads := jobFlags(fs, cfg)
	input := fs.String("input", "", "folder of product images")
	output := fs.String("output", cfg.OutputDir, "output folder")
	fs.IntVar(&cfg.Options.Workers, "workers", cfg.Options.Workers, "parallel renders")
	fs.Parse(args)
	if j.Template == "" || *input == "" {
		fs.Usage()
		return fmt.Errorf("batch: -template and -input are required")
	}
	j.Quads = *quads

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := mockup.NewEngine(cfg.Options)
	res, err := e.RenderFolder(ctx, *j, *input, *output, func(done, total int) {
		log.Printf("%d/%d", done, total)
	})
	if err != nil {
		return err
	}
	for _, be := range res.Errors {
		log.Printf("%s: %s", be.Label, be.Message)
	}
	log.Printf("processed %d of %d, skipped %d, failed %d", res.Processed, res.Total, res.Skipped, len(res.Errors))
	return res.Err
}

func runColor(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("color", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("color: expected one image path")
	}
	e := mockup.NewEngine(cfg.Options)
	c, err := e.ProductColor(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("#%02x%02x%02x\n", c.R, c.G, c.B)
	return nil
}

func runPalette(args []string) error {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	k := fs.Int("k", 7, "palette size")
	method := fs.String("method", palette.MethodDominantColor.String(), "seeded-kmeans, kmeans or dominantcolor")
	tile := fs.Int("tile", 64, "swatch tile size")
	output := fs.String("output", "palette.png", "swatch file")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("palette: expected one image path")
	}
	m, ok := palette.ParseMethod(*method)
	if !ok {
		return fmt.Errorf("palette: unknown method %q", *method)
	}
	img, err := imageio.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	p := palette.Extract(img, *k, m)
	// Darkest first.
	palette.SortByBrightness(p)
	for _, c := range p {
		fmt.Println(c.Hex())
	}
	return imageio.Save(palette.Swatch(p, *tile), *output)
}
