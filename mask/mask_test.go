package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNewHSV(t *testing.T) {
	hsv := NewHSV(solid(2, 2, color.NRGBA{255, 0, 0, 255}))
	require.Equal(t, uint8(0), hsv.H[0])
	require.Equal(t, uint8(255), hsv.S[0])
	require.Equal(t, uint8(255), hsv.V[0])

	hsv = NewHSV(solid(1, 1, color.NRGBA{0, 0, 255, 128}))
	require.Equal(t, uint8(120), hsv.H[0])
	require.InDelta(t, 240.0, hsv.Deg[0], 1e-6)
	require.Equal(t, uint8(128), hsv.A[0])
}

func TestSkinPercentage(t *testing.T) {
	d := NewSkinDetector()
	require.Equal(t, 0.0, d.Percentage(solid(20, 20, color.NRGBA{0, 0, 255, 255})))
	require.InDelta(t, 1.0, d.Percentage(solid(20, 20, color.NRGBA{200, 160, 130, 255})), 1e-9)
}

func TestSkinPercentageIgnoresTransparent(t *testing.T) {
	img := solid(10, 10, color.NRGBA{200, 160, 130, 255})
	for y := range 10 {
		for x := 5; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 0})
		}
	}
	d := NewSkinDetector()
	require.InDelta(t, 1.0, d.Percentage(img), 1e-9)

	empty := solid(4, 4, color.NRGBA{200, 160, 130, 0})
	require.Equal(t, 0.0, d.Percentage(empty))
}

func TestIsPhoto(t *testing.T) {
	img := solid(20, 20, color.NRGBA{0, 0, 255, 255})
	for x := range 20 {
		img.SetNRGBA(x, 0, color.NRGBA{200, 160, 130, 255})
	}
	d := NewSkinDetector()
	require.InDelta(t, 0.05, d.Percentage(img), 1e-9)
	require.True(t, d.IsPhoto(img, DefaultPhotoThreshold))
	require.False(t, d.IsPhoto(img, 0.1))
}

func TestSkinMaskFeathered(t *testing.T) {
	img := solid(21, 21, color.NRGBA{0, 0, 255, 255})
	for y := 5; y < 16; y++ {
		for x := 5; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 160, 130, 255})
		}
	}
	d := NewSkinDetector()
	hard := d.MaskWithRadius(img, 0)
	require.Equal(t, uint8(255), hard.GrayAt(10, 10).Y)
	require.Equal(t, uint8(0), hard.GrayAt(4, 10).Y)

	soft := d.Mask(img)
	require.Greater(t, soft.GrayAt(4, 10).Y, uint8(0))
	require.Less(t, soft.GrayAt(5, 10).Y, uint8(255))
	require.Equal(t, img.Bounds().Size(), soft.Bounds().Size())
}

func TestSigmoid(t *testing.T) {
	require.InDelta(t, 0.5, Sigmoid(50, 50, 20), 1e-12)
	require.Equal(t, Sigmoid(3, 1, 1), Sigmoid(3, 1, 0))
	require.InDelta(t, 1.0, Sigmoid(1e6, 0, 1), 1e-12)
	require.InDelta(t, 0.0, Sigmoid(-1e6, 0, 1), 1e-12)
	require.Greater(t, Sigmoid(60, 50, 20), Sigmoid(40, 50, 20))
}

func TestColorMask(t *testing.T) {
	g := NewSoftMasks()
	red := g.ColorMask(NewHSV(solid(2, 2, color.NRGBA{200, 30, 30, 255})))
	require.Greater(t, red.Pix[0], uint8(200))

	gray := g.ColorMask(NewHSV(solid(2, 2, color.NRGBA{128, 128, 128, 255})))
	require.Less(t, gray.Pix[0], uint8(30))

	black := g.ColorMask(NewHSV(solid(2, 2, color.NRGBA{0, 0, 0, 255})))
	require.Less(t, black.Pix[0], uint8(10))
}

func TestFeatherMinimumRadius(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 15, 15))
	m.SetGray(7, 7, color.Gray{255})
	g := NewSoftMasks()
	require.Equal(t, g.Feather(m, 3).Pix, g.Feather(m, 1).Pix)
	require.Greater(t, g.Feather(m, 1).GrayAt(9, 7).Y, uint8(0))
}

func TestBlurUniform(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 12, 8))
	for i := range m.Pix {
		m.Pix[i] = 200
	}
	out := Blur(m, 5)
	for _, v := range out.Pix {
		require.InDelta(t, 200, int(v), 1)
	}
	require.InDelta(t, 2.0, SigmaForRadius(5), 1e-9)
}

func TestDilate(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 15, 15))
	m.SetGray(7, 7, color.Gray{255})
	d := Dilate(m, 5, 1)
	require.Equal(t, uint8(255), d.GrayAt(9, 7).Y)
	require.Equal(t, uint8(0), d.GrayAt(10, 7).Y)

	d2 := Dilate(m, 5, 2)
	require.Equal(t, uint8(255), d2.GrayAt(11, 7).Y)
}

func TestFraction(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 4, 1))
	m.Pix = []uint8{255, 0, 255, 255}
	require.InDelta(t, 0.75, Fraction(m, nil, 127, 0), 1e-9)
	require.InDelta(t, 0.5, Fraction(m, []uint8{255, 255, 0, 0}, 127, 127), 1e-9)
}

func TestEdges(t *testing.T) {
	img := solid(60, 60, color.NRGBA{255, 255, 255, 255})
	for y := 20; y < 40; y++ {
		for x := 10; x < 50; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	e := Edges(img)
	require.Equal(t, uint8(255), e.GrayAt(10, 30).Y)
	require.Equal(t, uint8(255), e.GrayAt(30, 20).Y)
	require.Zero(t, e.GrayAt(30, 30).Y)
	require.Zero(t, e.GrayAt(2, 2).Y)

	_, ok := LargestRegionAspect(Edges(solid(30, 30, color.NRGBA{90, 90, 90, 255})))
	require.False(t, ok)
}

func TestLargestRegionAspect(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 80, 40))
	for y := 5; y < 15; y++ {
		for x := 5; x < 45; x++ {
			m.SetGray(x, y, color.Gray{255})
		}
	}
	for y := 25; y < 30; y++ {
		for x := 60; x < 65; x++ {
			m.SetGray(x, y, color.Gray{255})
		}
	}
	aspect, ok := LargestRegionAspect(m)
	require.True(t, ok)
	require.InDelta(t, 39.0/9.0, aspect, 0.01)

	line := image.NewGray(image.Rect(0, 0, 10, 10))
	for x := range 10 {
		line.SetGray(x, 3, color.Gray{255})
	}
	_, ok = LargestRegionAspect(line)
	require.False(t, ok)
}
