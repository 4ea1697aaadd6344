package mockup

import (
	"image"
	"image/color"
	"testing"

	"github.com/setanarut/mockup/geom"
	"github.com/stretchr/testify/require"
)

func withCard(w, h int) *image.NRGBA {
	img := filled(300, 300, color.NRGBA{240, 240, 240, 255})
	x0, y0 := (300-w)/2, (300-h)/2
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{40, 40, 60, 255})
		}
	}
	return img
}

func TestDetectCardType(t *testing.T) {
	require.Equal(t, geom.Card100x50, DetectCardType(withCard(200, 100), "/t/mat.png"))
	require.Equal(t, geom.Card50x50, DetectCardType(withCard(150, 140), "/t/mat.png"))
	require.Equal(t, geom.Card50x50, DetectCardType(filled(300, 300, gray), "/t/blank.png"))
	// A size in the name wins over the outline.
	require.Equal(t, geom.Card120x60, DetectCardType(withCard(150, 140), "/t/mat_120.png"))
}

func TestJobQuadsFollowOutline(t *testing.T) {
	tmpl := writeImage(t, t.TempDir(), "mat.png", withCard(200, 100))
	e, _ := testEngine()
	quads, err := e.jobQuads(e.NewJob(tmpl))
	require.NoError(t, err)
	require.Equal(t, []geom.Quad{geom.Placement(300, 300, geom.Card100x50)}, quads)
}
