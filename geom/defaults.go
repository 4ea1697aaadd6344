package geom

import "strings"

// CardType names a physical card format with its own default placement.
type CardType string

const (
	Card120x60 CardType = "120x60"
	Card100x50 CardType = "100x50"
	Card50x50  CardType = "50x50"
)

const (
	baseWidth  = 1500
	baseHeight = 2000
)

// Default placements measured on a 1500x2000 reference template.
var defaultQuads = map[CardType]Quad{
	Card100x50: {{256, 389}, {950, 658}, {800, 1092}, {-35, 572}},
	Card120x60: {{191, 383}, {950, 673}, {791, 1109}, {-87, 565}},
	Card50x50:  {{408, 404}, {900, 509}, {642, 1038}, {-9, 654}},
}

// ParseCardType reads the card format from a template file name. ok is
// false when the name carries no known size.
func ParseCardType(name string) (t CardType, ok bool) {
	switch {
	case strings.Contains(name, "120"):
		return Card120x60, true
	case strings.Contains(name, "100"):
		return Card100x50, true
	case strings.Contains(name, "50"):
		return Card50x50, true
	}
	return Card50x50, false
}

// CardTypeFromName is ParseCardType defaulting to Card50x50.
func CardTypeFromName(name string) CardType {
	t, _ := ParseCardType(name)
	return t
}

// squareAspect is the long/short side ratio below which a card counts as square.
const squareAspect = 1.3

// CardTypeFromAspect classifies a card by the side ratio of its outline.
func CardTypeFromAspect(aspect float64) CardType {
	if aspect < 1 && aspect > 0 {
		aspect = 1 / aspect
	}
	if aspect < squareAspect {
		return Card50x50
	}
	return Card100x50
}

// DefaultQuad returns the default placement for a template of the given
// size, scaled from the reference template.
func DefaultQuad(width, height int, name string) Quad {
	return Placement(width, height, CardTypeFromName(name))
}

// Placement returns the default quad of card type t on a width x height template.
func Placement(width, height int, t CardType) Quad {
	base, ok := defaultQuads[t]
	if !ok {
		base = defaultQuads[Card50x50]
	}
	sx := float64(width) / baseWidth
	sy := float64(height) / baseHeight
	var q Quad
	for i, p := range base {
		q[i] = Point{X: int(float64(p.X) * sx), Y: int(float64(p.Y) * sy)}
	}
	return q
}
