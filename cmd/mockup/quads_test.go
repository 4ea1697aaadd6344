package main

import (
	"flag"
	"testing"

	"github.com/setanarut/mockup/geom"
	"github.com/stretchr/testify/require"
)

func TestQuadFlag(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	var quads quadList
	var products pathList
	fs.Var(&quads, "quad", "")
	fs.Var(&products, "product-file", "")
	err := fs.Parse([]string{
		"-quad", "0,0,10,0,10,10,0,10",
		"-quad", "20, 0, 30, 0, 30, 10, 20, 10",
		"-product-file", "a.png", "-product-file", "-",
	})
	require.NoError(t, err)
	require.Len(t, quads, 2)
	require.Equal(t, geom.Point{X: 30, Y: 10}, quads[1][2])
	require.Equal(t, pathList{"a.png", ""}, products)
}

func TestParseQuadErrors(t *testing.T) {
	for _, s := range []string{"1,2,3", "1,2,3,4", "a,b,c,d,e,f,g,h", "1,2,3,4,5,6,7,8,9,10"} {
		_, err := parseQuad(s)
		require.ErrorIs(t, err, geom.ErrValidation, s)
	}
}
