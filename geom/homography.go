package geom

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform stored row-major with H[8] == 1.
type Homography [9]float64

// Apply maps (x, y) through h. ok is false when the point maps to infinity.
func (h Homography) Apply(x, y float64) (float64, float64, bool) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, true
}

// Inverse returns the inverse transform normalized so that H[8] == 1.
func (h Homography) Inverse() (Homography, error) {
	m := mat.NewDense(3, 3, h[:])
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Homography{}, fmt.Errorf("%w: singular homography: %v", ErrValidation, err)
	}
	var out Homography
	for r := range 3 {
		for c := range 3 {
			out[r*3+c] = inv.At(r, c)
		}
	}
	if out[8] != 0 {
		s := 1 / out[8]
		for i := range out {
			out[i] *= s
		}
	}
	return out, nil
}

// SolveHomography finds the transform mapping each src[i] onto dst[i].
func SolveHomography(src, dst [4][2]float64) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		x, y := src[i][0], src[i][1]
		u, v := dst[i][0], dst[i][1]
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return Homography{}, fmt.Errorf("%w: degenerate quad: %v", ErrValidation, err)
	}
	var h Homography
	for i := range 8 {
		h[i] = sol.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// RectToQuad returns the transform taking a w x h rectangle's corners onto q.
func RectToQuad(w, h int, q Quad) (Homography, error) {
	fw, fh := float64(w-1), float64(h-1)
	src := [4][2]float64{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}
	var dst [4][2]float64
	for i, p := range q {
		dst[i] = [2]float64{float64(p.X), float64(p.Y)}
	}
	return SolveHomography(src, dst)
}
