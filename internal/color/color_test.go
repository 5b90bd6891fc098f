package color

import (
	"math"
	"testing"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		gamut  Gamut
		point  XY
		inside bool
	}{
		{
			name:   "centroid",
			gamut:  GamutC,
			point:  XY{X: 0.3382, Y: 0.3519},
			inside: true,
		},
		{
			name:   "red_primary",
			gamut:  GamutC,
			point:  GamutC.Red,
			inside: true,
		},
		{
			name:   "green_primary",
			gamut:  GamutC,
			point:  GamutC.Green,
			inside: true,
		},
		{
			name:   "blue_primary",
			gamut:  GamutC,
			point:  GamutC.Blue,
			inside: true,
		},
		{
			name:   "deep_green_outside",
			gamut:  GamutC,
			point:  XY{X: 0.05, Y: 0.9},
			inside: false,
		},
		{
			name:   "origin_outside",
			gamut:  GamutC,
			point:  XY{X: 0, Y: 0},
			inside: false,
		},
		{
			name:   "wide_point_outside_narrow_gamut",
			gamut:  GamutB,
			point:  XY{X: 0.17, Y: 0.7},
			inside: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gamut.Contains(tt.point); got != tt.inside {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.inside)
			}
		})
	}
}

func TestClamp_InsideUnchanged(t *testing.T) {
	p := XY{X: 0.4, Y: 0.4}
	if got := GamutC.Clamp(p); got != p {
		t.Errorf("Clamp(%v) = %v, want unchanged", p, got)
	}
}

func TestClamp_VertexForFarCorner(t *testing.T) {
	// A point far beyond the red primary must clamp to the red vertex,
	// since both adjacent edge projections saturate at t=1/t=0.
	p := XY{X: 1.5, Y: 0.3}
	got := GamutC.Clamp(p)
	if math.Abs(got.X-GamutC.Red.X) > 1e-9 || math.Abs(got.Y-GamutC.Red.Y) > 1e-9 {
		t.Errorf("Clamp(%v) = %v, want red primary %v", p, got, GamutC.Red)
	}
}

func TestClamp_AlwaysContained(t *testing.T) {
	// Clamped output must lie within the triangle (by the same orientation
	// test used internally), for a grid of points across and beyond the
	// unit square.
	gamuts := []Gamut{GamutA, GamutB, GamutC}
	for _, g := range gamuts {
		for x := -0.2; x <= 1.2; x += 0.05 {
			for y := -0.2; y <= 1.2; y += 0.05 {
				p := XY{X: x, Y: y}
				c := g.Clamp(p)
				if !containsWithSlack(g, c) {
					t.Fatalf("Clamp(%v) = %v escapes gamut %+v", p, c, g)
				}
			}
		}
	}
}

// containsWithSlack is Contains with a tolerance for floating point error
// on edge projections, which may land a hair outside due to rounding.
func containsWithSlack(g Gamut, p XY) bool {
	const eps = 1e-9
	d1 := (g.Green.X-g.Red.X)*(p.Y-g.Red.Y) - (g.Green.Y-g.Red.Y)*(p.X-g.Red.X)
	d2 := (g.Blue.X-g.Green.X)*(p.Y-g.Green.Y) - (g.Blue.Y-g.Green.Y)*(p.X-g.Green.X)
	d3 := (g.Red.X-g.Blue.X)*(p.Y-g.Blue.Y) - (g.Red.Y-g.Blue.Y)*(p.X-g.Blue.X)

	hasNeg := d1 < -eps || d2 < -eps || d3 < -eps
	hasPos := d1 > eps || d2 > eps || d3 > eps
	return !(hasNeg && hasPos)
}

func TestClamp_OnBoundaryAfterClamp(t *testing.T) {
	// An outside point must land exactly on one of the three edges.
	p := XY{X: 0.05, Y: 0.9}
	c := GamutC.Clamp(p)
	if !onSegment(GamutC.Red, GamutC.Green, c) &&
		!onSegment(GamutC.Green, GamutC.Blue, c) &&
		!onSegment(GamutC.Blue, GamutC.Red, c) {
		t.Errorf("Clamp(%v) = %v is not on any gamut edge", p, c)
	}
}

func onSegment(a, b, p XY) bool {
	const eps = 1e-9
	if math.Abs(cross(a, b, p)) > eps {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	if dot < -eps {
		return false
	}
	if dot > dist2(a, b)+eps {
		return false
	}
	return true
}

func TestByName(t *testing.T) {
	if ByName("A") != GamutA {
		t.Error("ByName(A) should return GamutA")
	}
	if ByName("B") != GamutB {
		t.Error("ByName(B) should return GamutB")
	}
	if ByName("C") != GamutC {
		t.Error("ByName(C) should return GamutC")
	}
	if ByName("unknown") != GamutC {
		t.Error("ByName should fall back to GamutC")
	}
}

func TestPresetValues(t *testing.T) {
	// Preset primaries are published constants consumed by capability
	// reporting; pin them so they cannot drift silently.
	if GamutC.Red != (XY{X: 0.6915, Y: 0.3083}) {
		t.Errorf("GamutC red = %v", GamutC.Red)
	}
	if GamutC.Green != (XY{X: 0.17, Y: 0.7}) {
		t.Errorf("GamutC green = %v", GamutC.Green)
	}
	if GamutC.Blue != (XY{X: 0.1532, Y: 0.0475}) {
		t.Errorf("GamutC blue = %v", GamutC.Blue)
	}
}
