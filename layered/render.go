package layered

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
)

// AlphaVisible is the alpha level below which a rendered layer counts as empty.
const AlphaVisible = 20

var (
	errInvisible = errors.New("no visible pixels")
	errOffCanvas = errors.New("layer lies outside the canvas")
)

// Strategy is one way of turning a leaf into pixels.
type Strategy struct {
	Name   string
	Render func(n *Node) (image.Image, error)
}

// DefaultStrategies tries composite, then flatten, then raw channels.
var DefaultStrategies = []Strategy{
	{Name: "composite", Render: func(n *Node) (image.Image, error) {
		if s, ok := n.Source.(Compositer); ok {
			return s.Composite()
		}
		return nil, ErrUnsupported
	}},
	{Name: "flatten", Render: func(n *Node) (image.Image, error) {
		if s, ok := n.Source.(Flattener); ok {
			return s.Flatten()
		}
		return nil, ErrUnsupported
	}},
	{Name: "channels", Render: func(n *Node) (image.Image, error) {
		if s, ok := n.Source.(ChannelSource); ok {
			return s.Channels()
		}
		return nil, ErrUnsupported
	}},
}

// Renderer turns layer tree nodes into canvas sized NRGBA images.
type Renderer struct {
	Width, Height int
	Strategies    []Strategy
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height, Strategies: DefaultStrategies}
}

// Render returns n drawn on a transparent canvas and the name of the
// strategy that produced it. Groups report "group".
func (r *Renderer) Render(n *Node) (*image.NRGBA, string, error) {
	if n.IsGroup() {
		img, err := r.renderGroup(n)
		return img, "group", err
	}
	var errs []error
	for _, s := range r.Strategies {
		raw, err := s.Render(n)
		if err == nil && raw == nil {
			err = ErrUnsupported
		}
		var img *image.NRGBA
		if err == nil {
			img = imaging.Clone(raw)
			if !visible(img) {
				err = errInvisible
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		placed, err := r.place(img, n.Bounds.Min)
		if err != nil {
			return nil, s.Name, err
		}
		return placed, s.Name, nil
	}
	return nil, "none", fmt.Errorf("layer %q: %w", n.Name, errors.Join(errs...))
}

// place copies img onto a transparent canvas with its top-left corner at at,
// cropping whatever falls outside.
func (r *Renderer) place(img *image.NRGBA, at image.Point) (*image.NRGBA, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	dst := image.Rectangle{Min: at, Max: at.Add(img.Rect.Size())}
	clipped := dst.Intersect(canvas.Rect)
	if clipped.Empty() {
		return nil, errOffCanvas
	}
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		src := img.PixOffset(img.Rect.Min.X+clipped.Min.X-at.X, img.Rect.Min.Y+y-at.Y)
		row := canvas.Pix[canvas.PixOffset(clipped.Min.X, y):canvas.PixOffset(clipped.Max.X, y)]
		copy(row, img.Pix[src:])
	}
	return canvas, nil
}

func (r *Renderer) renderGroup(g *Node) (*image.NRGBA, error) {
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	var base *image.NRGBA
	rendered, total := 0, 0
	for _, sub := range g.Children {
		if !sub.Visible {
			continue
		}
		total++
		img, _, err := r.Render(sub)
		if err != nil {
			log.Printf("layered: sublayer %q of group %q: %v", sub.Name, g.Name, err)
			base = nil
			continue
		}
		if sub.Clipping && base != nil {
			clip(img, base)
		} else {
			base = img
		}
		Over(out, img)
		rendered++
	}
	if total == 0 {
		return nil, fmt.Errorf("group %q: no visible sublayers", g.Name)
	}
	if rendered == 0 {
		return nil, fmt.Errorf("group %q: no sublayer rendered", g.Name)
	}
	return out, nil
}

// clip limits img alpha to base alpha.
func clip(img, base *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = min(img.Pix[i], base.Pix[i])
	}
}

func visible(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] >= AlphaVisible {
			return true
		}
	}
	return false
}
