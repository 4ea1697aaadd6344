package psdfile

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/oov/psd"
	"github.com/setanarut/mockup/layered"
	"github.com/stretchr/testify/require"
)

func filled(r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func uniformGray(r image.Rectangle, v uint8) *image.Gray {
	g := image.NewGray(r)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func sample() *psd.PSD {
	canvas := image.Rect(0, 0, 8, 8)
	inner := image.Rect(2, 2, 6, 6)
	return &psd.PSD{
		Config:  psd.Config{Rect: canvas},
		Picker: filled(canvas, color.NRGBA{50, 50, 50, 255}),
		Layer: []psd.Layer{
			{Name: "background", Rect: canvas, Opacity: 255, Picker: filled(canvas, color.NRGBA{200, 0, 0, 255})},
			{Name: "mat", Rect: inner, Opacity: 128, Picker: filled(inner, color.NRGBA{0, 200, 0, 255})},
			{
				Name: "decor",
				Rect: inner,
				Layer: []psd.Layer{
					{Name: "star", Rect: inner, Opacity: 255, Channel: map[int]psd.Channel{
						0:  {Picker: uniformGray(inner, 10)},
						1:  {Picker: uniformGray(inner, 20)},
						2:  {Picker: uniformGray(inner, 30)},
						-1: {Picker: uniformGray(inner, 255)},
					}},
				},
			},
		},
	}
}

func TestFromPSD(t *testing.T) {
	doc := FromPSD(sample())
	require.Equal(t, 8, doc.Width)
	require.Equal(t, 8, doc.Height)
	require.Len(t, doc.Layers, 3)
	require.Equal(t, "background", doc.Layers[0].Name)
	require.True(t, doc.Layers[0].Visible)
	require.False(t, doc.Layers[0].IsGroup())
	require.True(t, doc.Layers[2].IsGroup())
	require.Len(t, doc.Layers[2].Children, 1)

	merged, err := doc.Composite()
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), merged.Bounds())
}

func TestSourceStrategies(t *testing.T) {
	doc := FromPSD(sample())

	mat := doc.Layers[1].Source.(layered.Compositer)
	img, err := mat.Composite()
	require.NoError(t, err)
	require.Equal(t, uint8(128), img.(*image.NRGBA).Pix[3])

	flat, err := doc.Layers[1].Source.(layered.Flattener).Flatten()
	require.NoError(t, err)
	_, _, _, a := flat.At(3, 3).RGBA()
	require.Equal(t, uint32(0xffff), a)

	star := doc.Layers[2].Children[0]
	_, err = star.Source.(layered.Compositer).Composite()
	require.ErrorIs(t, err, layered.ErrUnsupported)

	r := layered.NewRenderer(doc.Width, doc.Height)
	out, method, err := r.Render(star)
	require.NoError(t, err)
	require.Equal(t, "channels", method)
	require.Equal(t, color.NRGBA{10, 20, 30, 255}, out.NRGBAAt(3, 3))
	require.Equal(t, uint8(0), out.NRGBAAt(1, 1).A)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a psd")))
	require.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing.psd"))
	require.Error(t, err)
}
