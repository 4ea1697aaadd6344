// Package psdfile decodes Photoshop documents into layer trees.
package psdfile

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/oov/psd"
	"github.com/setanarut/mockup/layered"
)

// Open reads the document at path.
func Open(path string) (*layered.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a document from r, keeping the merged image when present.
func Decode(r io.Reader) (*layered.Document, error) {
	p, _, err := psd.Decode(r, &psd.DecodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("psdfile: %w", err)
	}
	return FromPSD(p), nil
}

// FromPSD converts a decoded document.
func FromPSD(p *psd.PSD) *layered.Document {
	rect := p.Config.Rect
	doc := &layered.Document{
		Width:  rect.Dx(),
		Height: rect.Dy(),
		Layers: convert(p.Layer),
	}
	if p.Picker != nil {
		doc.Merged = layered.ImageSource{Image: p.Picker}
	}
	return doc
}

func convert(layers []psd.Layer) []*layered.Node {
	out := make([]*layered.Node, 0, len(layers))
	for i := range layers {
		l := &layers[i]
		n := &layered.Node{
			Name:     l.Name,
			Visible:  l.Visible(),
			Clipping: l.Clipping,
			Bounds:   l.Rect,
		}
		if l.Folder() || len(l.Layer) > 0 {
			n.Kind = layered.KindGroup
			n.Children = convert(l.Layer)
		} else {
			n.Source = source{layer: l}
		}
		out = append(out, n)
	}
	return out
}

// source renders one pixel layer three ways.
type source struct {
	layer *psd.Layer
}

// Composite returns the layer picture with the layer opacity applied.
func (s source) Composite() (image.Image, error) {
	if s.layer.Picker == nil {
		return nil, layered.ErrUnsupported
	}
	img := imaging.Clone(s.layer.Picker)
	if op := s.layer.Opacity; op < 255 {
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = uint8(uint32(img.Pix[i]) * uint32(op) / 255)
		}
	}
	return img, nil
}

// Flatten returns the layer picture as stored.
func (s source) Flatten() (image.Image, error) {
	if s.layer.Picker == nil {
		return nil, layered.ErrUnsupported
	}
	return s.layer.Picker, nil
}

// Channels assembles the layer from its color and transparency channels.
func (s source) Channels() (image.Image, error) {
	r, okR := s.layer.Channel[0]
	g, okG := s.layer.Channel[1]
	b, okB := s.layer.Channel[2]
	if !okR || !okG || !okB || r.Picker == nil || g.Picker == nil || b.Picker == nil {
		return nil, layered.ErrUnsupported
	}
	rect := s.layer.Rect
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	a, okA := s.layer.Channel[-1]
	for y := range rect.Dy() {
		for x := range rect.Dx() {
			px, py := rect.Min.X+x, rect.Min.Y+y
			i := out.PixOffset(x, y)
			out.Pix[i] = gray(r.Picker, px, py)
			out.Pix[i+1] = gray(g.Picker, px, py)
			out.Pix[i+2] = gray(b.Picker, px, py)
			out.Pix[i+3] = 255
			if okA && a.Picker != nil {
				out.Pix[i+3] = gray(a.Picker, px, py)
			}
		}
	}
	return out, nil
}

func gray(img image.Image, x, y int) uint8 {
	v, _, _, _ := img.At(x, y).RGBA()
	return uint8(v >> 8)
}
