// Package zigbee builds and serializes the low-level light-state commands
// sent directly to gradient-capable luminaires over the mesh radio. The
// high-level resource API cannot express multi-point gradients through
// generic attributes, so those updates travel as compact fixed-layout
// frames produced here.
package zigbee

import "github.com/luxbridge/luxd/internal/color"

// GradientStyle selects how an ordered color list maps onto a luminaire's
// physical segments. The values are the on-wire style codes.
type GradientStyle uint8

const (
	// StyleLinear paints colors sequentially across the segments.
	StyleLinear GradientStyle = 0x00
	// StyleMirrored reflects the pattern about the strip midpoint.
	StyleMirrored GradientStyle = 0x01
	// StyleScattered distributes colors non-sequentially.
	StyleScattered GradientStyle = 0x02
)

// GradientParams tune gradient placement: Scale controls how compressed
// the color transition is across segments, Offset is the segment index
// the pattern starts at.
type GradientParams struct {
	Scale  uint8
	Offset uint8
}

// MaxGradientPoints is the most colors a single gradient frame can carry.
const MaxGradientPoints = 9

type gradient struct {
	style  GradientStyle
	points []color.XY
	params GradientParams
}

// Update accumulates a pending light-state change. Fields are optional;
// only the ones set contribute bytes to the encoded frame.
//
// Update has value semantics: every setter returns a new Update and never
// writes through state shared with a previous one, so partially built
// updates can be kept around or branched freely. Each instance is owned
// by a single caller; distinct instances need no synchronization.
//
// A single color and a gradient may both be set. The encoder emits both
// fields and gradient-capable hardware renders the gradient; callers that
// want strict exclusivity must enforce it before building the update.
type Update struct {
	on         *bool
	brightness *uint8
	color      *color.XY
	mirek      *uint16
	gradient   *gradient
}

// NewUpdate returns an empty update with no fields set.
func NewUpdate() Update {
	return Update{}
}

// WithOnOff sets or overwrites the power field.
func (u Update) WithOnOff(on bool) Update {
	u.on = &on
	return u
}

// WithBrightness sets the brightness level. The raw value is stored as-is;
// range checking happens at encode time so a whole update is validated
// atomically.
func (u Update) WithBrightness(level uint8) Update {
	u.brightness = &level
	return u
}

// WithColor sets a single target color.
func (u Update) WithColor(p color.XY) Update {
	u.color = &p
	return u
}

// WithColorTemperature sets the white-light tone in mirek
// (1,000,000 / kelvin). Range checking happens at encode time.
func (u Update) WithColorTemperature(mirek uint16) Update {
	u.mirek = &mirek
	return u
}

// WithGradientColors sets the gradient style and colors. Every point is
// clamped against the target luminaire's gamut before being stored, so
// the encoded frame only ever carries colors the light can render.
// GradientParams start at the zero default until overridden.
//
// Fails with ErrEmptyGradient when points is empty, or with a
// *GradientLengthError when it exceeds MaxGradientPoints. On error the
// receiver is returned unchanged.
func (u Update) WithGradientColors(style GradientStyle, gamut color.Gamut, points []color.XY) (Update, error) {
	if len(points) == 0 {
		return u, ErrEmptyGradient
	}
	if len(points) > MaxGradientPoints {
		return u, &GradientLengthError{Count: len(points)}
	}

	clamped := make([]color.XY, len(points))
	for i, p := range points {
		clamped[i] = gamut.Clamp(p)
	}

	u.gradient = &gradient{style: style, points: clamped}
	return u, nil
}

// WithGradientParams overwrites scale and offset on an existing gradient.
// Calling it before WithGradientColors is a silent no-op: params are
// meaningless without colors, and the subsequent WithGradientColors call
// resets them to the default anyway.
func (u Update) WithGradientParams(params GradientParams) Update {
	if u.gradient == nil {
		return u
	}
	g := *u.gradient
	g.params = params
	u.gradient = &g
	return u
}
