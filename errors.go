package mockup

import (
	"github.com/setanarut/mockup/geom"
	"github.com/setanarut/mockup/imageio"
)

var (
	// ErrValidation reports malformed point sets.
	ErrValidation = geom.ErrValidation
	// ErrNotFound reports a missing template or product file.
	ErrNotFound = imageio.ErrNotFound
	// ErrDecode reports image data that cannot be read.
	ErrDecode = imageio.ErrDecode
)

// AreaError describes a product that could not be placed into one area of
// a multi-area composition. The remaining areas are still rendered.
type AreaError struct {
	Label   string
	Message string
}

func (e AreaError) Error() string {
	return e.Label + ": " + e.Message
}
