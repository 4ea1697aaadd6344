package geom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRectangle(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	require.NoError(t, Validate(pts, 100, 100))
}

func TestValidateBowtie(t *testing.T) {
	pts := []Point{{0, 0}, {0, 10}, {10, 0}, {10, 10}}
	err := Validate(pts, 100, 100)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrValidation))
}

func TestValidatePointCount(t *testing.T) {
	err := Validate([]Point{{0, 0}, {1, 1}, {2, 0}}, 10, 10)
	require.ErrorIs(t, err, ErrValidation)
	err = Validate(nil, 10, 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateOutsideTemplate(t *testing.T) {
	pts := []Point{{-50, -20}, {200, 0}, {220, 300}, {-10, 260}}
	require.NoError(t, Validate(pts, 100, 100))
}

func TestIsConvex(t *testing.T) {
	require.True(t, IsConvex(Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}}))
	require.False(t, IsConvex(Quad{{0, 0}, {10, 0}, {3, 3}, {0, 10}}))
	require.False(t, IsConvex(Quad{{0, 0}, {1, 1}, {2, 2}, {3, 3}}))
}

func TestCenter(t *testing.T) {
	x, y := Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}}.Center()
	require.InDelta(t, 5.0, x, 1e-9)
	require.InDelta(t, 5.0, y, 1e-9)
}

func TestRectToQuadMapsCorners(t *testing.T) {
	q := Quad{{20, 10}, {80, 15}, {90, 70}, {10, 60}}
	h, err := RectToQuad(50, 40, q)
	require.NoError(t, err)

	src := [][2]float64{{0, 0}, {49, 0}, {49, 39}, {0, 39}}
	for i, s := range src {
		x, y, ok := h.Apply(s[0], s[1])
		require.True(t, ok)
		require.InDelta(t, float64(q[i].X), x, 1e-6)
		require.InDelta(t, float64(q[i].Y), y, 1e-6)
	}

	inv, err := h.Inverse()
	require.NoError(t, err)
	x, y, ok := inv.Apply(20, 10)
	require.True(t, ok)
	require.InDelta(t, 0, x, 1e-6)
	require.InDelta(t, 0, y, 1e-6)
}

func TestRectToQuadDegenerate(t *testing.T) {
	_, err := RectToQuad(50, 40, Quad{{0, 0}, {0, 0}, {0, 0}, {0, 0}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDefaultQuad(t *testing.T) {
	require.Equal(t, Card120x60, CardTypeFromName("mat_120x60.png"))
	require.Equal(t, Card100x50, CardTypeFromName("desk-100.psd"))
	require.Equal(t, Card50x50, CardTypeFromName("square.png"))
	_, ok := ParseCardType("square.png")
	require.False(t, ok)
	ct, ok := ParseCardType("coaster-50.png")
	require.True(t, ok)
	require.Equal(t, Card50x50, ct)

	q := DefaultQuad(750, 1000, "square.png")
	require.Equal(t, Point{204, 202}, q[0])
	require.Equal(t, Point{-4, 327}, q[3])
	require.NoError(t, q.Validate(750, 1000))
}

func TestCardTypeFromAspect(t *testing.T) {
	require.Equal(t, Card50x50, CardTypeFromAspect(1))
	require.Equal(t, Card50x50, CardTypeFromAspect(1.29))
	require.Equal(t, Card100x50, CardTypeFromAspect(1.3))
	require.Equal(t, Card100x50, CardTypeFromAspect(2))
	require.Equal(t, Card100x50, CardTypeFromAspect(0.5))
	require.Equal(t, Placement(750, 1000, Card120x60), DefaultQuad(750, 1000, "mat_120.png"))
}
