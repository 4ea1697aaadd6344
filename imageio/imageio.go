// Package imageio loads and saves the rasters the engine works on. Every
// image is normalized to 8-bit straight-alpha NRGBA on load.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/setanarut/mockup/layered"
	"github.com/setanarut/mockup/psdfile"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound reports a missing input file.
	ErrNotFound = errors.New("file not found")
	// ErrDecode reports unreadable or unsupported image data.
	ErrDecode = errors.New("cannot decode image")
)

// Background is the color JPEG output is flattened onto.
var Background = color.NRGBA{R: 13, G: 17, B: 23, A: 255}

// Extensions lists the template and product formats Load accepts.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".psd"}

// IsLayered reports whether path names a layered document.
func IsLayered(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".psd")
}

// IsSupported reports whether path has one of Extensions.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func statErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
}

// Load reads an image file as NRGBA. Palette, gray, 16-bit, CMYK and YCbCr
// sources are converted; opaque sources get alpha 255. Layered documents
// load as their merged image.
func Load(path string) (*image.NRGBA, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, statErr(path, err)
	}
	if IsLayered(path) {
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		img, err := doc.Composite()
		if err != nil || img == nil {
			return nil, fmt.Errorf("%w: %s: no merged image", ErrDecode, path)
		}
		return imaging.Clone(img), nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, statErr(path, err)
	}
	return imaging.Clone(img), nil
}

// LoadDocument reads a layered document.
func LoadDocument(path string) (*layered.Document, error) {
	doc, err := psdfile.Open(path)
	if err != nil {
		return nil, statErr(path, err)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("%w: %s: empty canvas", ErrDecode, path)
	}
	return doc, nil
}

// Listing is the content of an input folder.
type Listing struct {
	Images  []string // supported image files, sorted by name
	Entries int      // every directory entry, sub-directories included
	Others  int      // regular files that are not supported images
}

// ListImages lists the supported image files directly inside dir.
func ListImages(dir string) (Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, statErr(dir, err)
	}
	l := Listing{Entries: len(entries)}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !IsSupported(e.Name()) {
			l.Others++
			continue
		}
		l.Images = append(l.Images, filepath.Join(dir, e.Name()))
	}
	return l, nil
}

// OutputName returns the file name a render of path is saved under.
// Layered inputs are written as PNG.
func OutputName(path string) string {
	name := filepath.Base(path)
	if IsLayered(name) {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}
	return name
}

// Flatten composites img over an opaque background.
func Flatten(img image.Image, bg color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(out, img, image.Point{}, 1)
}

// Save writes img with the format chosen by the file extension. JPEG output
// is flattened onto Background first.
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return imaging.Save(Flatten(img, Background), path, imaging.JPEGQuality(95))
	default:
		return imaging.Save(img, path)
	}
}

// Preview shrinks img to fit within size x size, keeping the aspect ratio.
// Smaller images are returned unchanged.
func Preview(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
