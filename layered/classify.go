package layered

import (
	"image"
	"strings"

	"github.com/setanarut/mockup/mask"
)

var (
	// ProductKeywords mark the layer the warped product replaces.
	ProductKeywords = []string{"коврик", "смена", "product", "mat", "mousepad", "прямоугольник"}
	// PhotoKeywords mark layers that must keep their original colors.
	PhotoKeywords = []string{"фото", "photo", "портрет", "лицо", "face", "avatar", "person", "человек"}
)

func hasKeyword(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsProductName reports whether a layer name marks the product layer.
func IsProductName(name string) bool { return hasKeyword(name, ProductKeywords) }

// IsPhotoName reports whether a layer name marks a photo.
func IsPhotoName(name string) bool { return hasKeyword(name, PhotoKeywords) }

// FindProduct returns the first top-level layer named like a product layer.
func FindProduct(doc *Document) *Node {
	for _, n := range doc.Layers {
		if IsProductName(n.Name) {
			return n
		}
	}
	return nil
}

// Coverage is the share of the canvas covered by the layer's bounding box.
func Coverage(n *Node, width, height int) float64 {
	w, h := n.Bounds.Dx(), n.Bounds.Dy()
	if w <= 0 || h <= 0 || width <= 0 || height <= 0 {
		return 0
	}
	return float64(w*h) / float64(width*height)
}

// Classifier decides which layers are photos and must not be recolored.
type Classifier struct {
	Skin *mask.SkinDetector
	// Minimum skin share for a layer to count as a photo.
	SkinThreshold float64
	// Layers covering more of the canvas are treated as background.
	MaxCoverage float64
}

// IsPhoto checks the name first, then the rendered pixels. img may be nil
// for layers that failed to render.
func (c Classifier) IsPhoto(n *Node, img *image.NRGBA, width, height int) bool {
	if IsPhotoName(n.Name) {
		return true
	}
	if img == nil {
		return false
	}
	if Coverage(n, width, height) > c.MaxCoverage {
		return false
	}
	return c.Skin.IsPhoto(img, c.SkinThreshold)
}

// Mode is the strategy used to assemble the final image.
type Mode string

const (
	ModeLayerByLayer      Mode = "layer_by_layer"
	ModeHybrid            Mode = "hybrid"
	ModeCompositeFallback Mode = "composite_fallback"
)

// PartialRenderThreshold is the success ratio from which layer-by-layer
// assembly is still trusted.
const PartialRenderThreshold = 0.5

// SelectMode picks the assembly mode from render outcomes.
func SelectMode(succeeded, failed int) Mode {
	total := succeeded + failed
	switch {
	case total == 0 || succeeded == 0:
		return ModeCompositeFallback
	case failed == 0:
		return ModeLayerByLayer
	case float64(succeeded)/float64(total) >= PartialRenderThreshold:
		return ModeLayerByLayer
	default:
		return ModeHybrid
	}
}
