package mockup

import (
	"image"
	"log"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/setanarut/mockup/geom"
	"github.com/setanarut/mockup/mask"
)

// detectSize bounds the longer side of the image scanned for a card outline.
const detectSize = 400

// DetectCardType returns the card format of a template. A size in the file
// name wins; otherwise the outline of the largest edge region in img
// decides between square and rectangular cards.
func DetectCardType(img image.Image, name string) geom.CardType {
	if t, ok := geom.ParseCardType(filepath.Base(name)); ok {
		return t
	}
	b := img.Bounds()
	if b.Dx() > detectSize || b.Dy() > detectSize {
		img = imaging.Fit(img, detectSize, detectSize, imaging.Box)
	}
	aspect, ok := mask.LargestRegionAspect(mask.Edges(img))
	if !ok {
		return geom.Card50x50
	}
	t := geom.CardTypeFromAspect(aspect)
	log.Printf("mockup: %s: outline aspect %.2f, using %s", filepath.Base(name), aspect, t)
	return t
}
