// Package layered renders layered templates, recolors their background
// layers and inserts a warped product at the product layer's depth.
package layered

import (
	"errors"
	"image"
)

// ErrUnsupported is returned by a render strategy that cannot handle a node.
var ErrUnsupported = errors.New("render method not supported")

// Kind tells leaves from groups.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
)

// Node is one entry of the layer tree. Children are ordered bottom to top.
type Node struct {
	Name     string
	Visible  bool
	Clipping bool
	Kind     Kind
	// Bounds of the layer pixels on the canvas. May extend past the canvas.
	Bounds   image.Rectangle
	Children []*Node
	// Source supplies pixels for leaves. It may implement any of
	// Compositer, Flattener and ChannelSource.
	Source any
}

// IsGroup reports whether n holds sublayers instead of pixels.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup }

// Compositer renders a layer with its blending and opacity applied.
type Compositer interface {
	Composite() (image.Image, error)
}

// Flattener returns the layer pixels without layer effects.
type Flattener interface {
	Flatten() (image.Image, error)
}

// ChannelSource assembles the layer from its raw color channels.
type ChannelSource interface {
	Channels() (image.Image, error)
}

// Document is a decoded layered template.
type Document struct {
	Width, Height int
	// Top-level layers, bottom to top.
	Layers []*Node
	// Merged renders the whole document; nil when the file carries no
	// merged image.
	Merged Compositer
}

// Bounds returns the canvas rectangle.
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

// Composite renders the document's merged image.
func (d *Document) Composite() (image.Image, error) {
	if d.Merged == nil {
		return nil, ErrUnsupported
	}
	return d.Merged.Composite()
}

// ImageSource adapts a plain image to every leaf source interface.
type ImageSource struct {
	Image image.Image
}

func (s ImageSource) Composite() (image.Image, error) {
	if s.Image == nil {
		return nil, ErrUnsupported
	}
	return s.Image, nil
}

func (s ImageSource) Flatten() (image.Image, error) { return s.Composite() }

func (s ImageSource) Channels() (image.Image, error) { return s.Composite() }
