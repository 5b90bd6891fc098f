// Package color implements CIE 1931 xy chromaticity handling and the
// per-luminaire color gamut clamping used before colors are sent to a light.
package color

import "math"

// XY is a point in the CIE 1931 xy chromaticity plane.
// Both coordinates lie in the unit interval for any renderable color.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gamut is the triangle of chromaticity points a luminaire class can
// physically render, given by its red, green and blue primaries.
type Gamut struct {
	Red   XY `json:"red"`
	Green XY `json:"green"`
	Blue  XY `json:"blue"`
}

// Published gamut presets. These values are a cross-component contract:
// they are reported verbatim in light capability responses, so they must
// not change between releases.
var (
	// GamutA covers the original LivingColors generation.
	GamutA = Gamut{
		Red:   XY{X: 0.704, Y: 0.296},
		Green: XY{X: 0.2151, Y: 0.7106},
		Blue:  XY{X: 0.138, Y: 0.08},
	}

	// GamutB covers first-generation color bulbs.
	GamutB = Gamut{
		Red:   XY{X: 0.675, Y: 0.322},
		Green: XY{X: 0.409, Y: 0.518},
		Blue:  XY{X: 0.167, Y: 0.04},
	}

	// GamutC covers current-generation color lights, including the
	// gradient-capable ones.
	GamutC = Gamut{
		Red:   XY{X: 0.6915, Y: 0.3083},
		Green: XY{X: 0.17, Y: 0.7},
		Blue:  XY{X: 0.1532, Y: 0.0475},
	}
)

// ByName returns the preset gamut for a single-letter gamut type ("A",
// "B" or "C"). Unknown names fall back to GamutC, the widest preset.
func ByName(name string) Gamut {
	switch name {
	case "A":
		return GamutA
	case "B":
		return GamutB
	default:
		return GamutC
	}
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b XY) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Contains reports whether p lies inside the gamut triangle or exactly on
// its boundary, using orientation tests against the three directed edges.
func (g Gamut) Contains(p XY) bool {
	d1 := cross(g.Red, g.Green, p)
	d2 := cross(g.Green, g.Blue, p)
	d3 := cross(g.Blue, g.Red, p)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	// Mixed signs mean p is outside; all-same-sign (or zero) means inside
	// or on an edge.
	return !(hasNeg && hasPos)
}

// Clamp maps p to the nearest point the gamut can render. Points already
// inside the triangle are returned unchanged; points outside are projected
// onto the closest of the three edges. The result is always renderable
// exactly, so Clamp never fails.
func (g Gamut) Clamp(p XY) XY {
	if g.Contains(p) {
		return p
	}

	candidates := [3]XY{
		closestOnSegment(g.Red, g.Green, p),
		closestOnSegment(g.Green, g.Blue, p),
		closestOnSegment(g.Blue, g.Red, p),
	}

	best := candidates[0]
	bestDist := dist2(best, p)
	for _, c := range candidates[1:] {
		if d := dist2(c, p); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// closestOnSegment returns the point on segment a-b closest to p. The
// projection parameter is clamped to [0, 1], so the result never falls
// outside the segment endpoints.
func closestOnSegment(a, b, p XY) XY {
	dx := b.X - a.X
	dy := b.Y - a.Y

	len2 := dx*dx + dy*dy
	if len2 == 0 {
		// Degenerate segment
		return a
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / len2
	t = math.Max(0, math.Min(1, t))

	return XY{X: a.X + t*dx, Y: a.Y + t*dy}
}

// dist2 returns the squared Euclidean distance between a and b.
func dist2(a, b XY) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
