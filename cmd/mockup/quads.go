package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/setanarut/mockup/geom"
)

// quadList collects repeated -quad flags of the form x1,y1,x2,y2,x3,y3,x4,y4.
type quadList []geom.Quad

func (l *quadList) String() string {
	parts := make([]string, len(*l))
	for i, q := range *l {
		parts[i] = fmt.Sprint(q)
	}
	return strings.Join(parts, " ")
}

func (l *quadList) Set(s string) error {
	q, err := parseQuad(s)
	if err != nil {
		return err
	}
	*l = append(*l, q)
	return nil
}

func parseQuad(s string) (geom.Quad, error) {
	fields := strings.Split(s, ",")
	points := make([]geom.Point, 0, 4)
	if len(fields)%2 != 0 {
		return geom.Quad{}, fmt.Errorf("%w: odd coordinate count in %q", geom.ErrValidation, s)
	}
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return geom.Quad{}, fmt.Errorf("%w: %v", geom.ErrValidation, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
		if err != nil {
			return geom.Quad{}, fmt.Errorf("%w: %v", geom.ErrValidation, err)
		}
		points = append(points, geom.Point{X: x, Y: y})
	}
	return geom.QuadFromPoints(points)
}

// pathList collects repeated -product flags. "-" leaves an area empty.
type pathList []string

func (l *pathList) String() string { return strings.Join(*l, ",") }

func (l *pathList) Set(s string) error {
	if s == "-" {
		s = ""
	}
	*l = append(*l, s)
	return nil
}
