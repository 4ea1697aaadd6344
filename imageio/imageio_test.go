package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()

	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}
	writePNG(t, filepath.Join(dir, "gray.png"), gray)
	img, err := Load(filepath.Join(dir, "gray.png"))
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{77, 77, 77, 255}, img.NRGBAAt(1, 1))

	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.NRGBA{0, 0, 0, 0},
		color.NRGBA{10, 200, 30, 255},
	})
	pal.SetColorIndex(1, 1, 1)
	writePNG(t, filepath.Join(dir, "pal.png"), pal)
	img, err = Load(filepath.Join(dir, "pal.png"))
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{10, 200, 30, 255}, img.NRGBAAt(1, 1))
	require.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)

	deep := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	deep.SetRGBA64(0, 0, color.RGBA64{0xffff, 0x8080, 0, 0xffff})
	writePNG(t, filepath.Join(dir, "deep.png"), deep)
	img, err = Load(filepath.Join(dir, "deep.png"))
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{255, 128, 0, 255}, img.NRGBAAt(0, 0))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, ErrNotFound)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))
	_, err = Load(bad)
	require.ErrorIs(t, err, ErrDecode)

	badPSD := filepath.Join(dir, "bad.psd")
	require.NoError(t, os.WriteFile(badPSD, []byte("garbage"), 0o644))
	_, err = Load(badPSD)
	require.ErrorIs(t, err, ErrDecode)

	_, err = LoadDocument(filepath.Join(dir, "none.psd"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveJPEGFlattens(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	path := filepath.Join(dir, "out", "clear.jpg")
	require.NoError(t, Save(img, path))

	back, err := Load(path)
	require.NoError(t, err)
	p := back.NRGBAAt(8, 8)
	require.InDelta(t, 13, int(p.R), 4)
	require.InDelta(t, 17, int(p.G), 4)
	require.InDelta(t, 23, int(p.B), 4)

	pngPath := filepath.Join(dir, "clear.png")
	require.NoError(t, Save(img, pngPath))
	back, err = Load(pngPath)
	require.NoError(t, err)
	require.Equal(t, uint8(0), back.NRGBAAt(8, 8).A)
}

func TestPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2400, 1200))
	p := Preview(img, 1200)
	require.Equal(t, image.Pt(1200, 600), p.Bounds().Size())

	small := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	require.Same(t, small, Preview(small, 1200))
}

func TestExtensions(t *testing.T) {
	require.True(t, IsSupported("a/B.PNG"))
	require.True(t, IsSupported("x.psd"))
	require.False(t, IsSupported("x.gif"))
	require.True(t, IsLayered("T.PSD"))
	require.False(t, IsLayered("t.png"))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "notes.txt", "c.psd"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	l, err := ListImages(dir)
	require.NoError(t, err)
	require.Equal(t, 5, l.Entries)
	require.Equal(t, 1, l.Others)
	require.Equal(t, []string{
		filepath.Join(dir, "a.JPG"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.psd"),
	}, l.Images)

	_, err = ListImages(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOutputName(t *testing.T) {
	require.Equal(t, "mat.png", OutputName("/in/mat.PSD"))
	require.Equal(t, "mat.jpg", OutputName("/in/mat.jpg"))
}
