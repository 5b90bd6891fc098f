package hue

import (
	"math"

	"github.com/luxbridge/luxd/internal/color"
	"github.com/luxbridge/luxd/internal/zigbee"
)

// LightUpdate is the body of a PUT on a light resource. All fields are
// optional; only the ones present change state. Grouped lights accept the
// same shape.
type LightUpdate struct {
	On               *On                     `json:"on,omitempty"`
	Dimming          *Dimming                `json:"dimming,omitempty"`
	Color            *ColorUpdate            `json:"color,omitempty"`
	ColorTemperature *ColorTemperatureUpdate `json:"color_temperature,omitempty"`
	Gradient         *GradientUpdate         `json:"gradient,omitempty"`
}

// ColorUpdate sets a single target color.
type ColorUpdate struct {
	XY color.XY `json:"xy"`
}

// ColorTemperatureUpdate sets the white tone in mirek.
type ColorTemperatureUpdate struct {
	Mirek uint16 `json:"mirek"`
}

// GradientUpdate replaces a light's gradient pattern.
type GradientUpdate struct {
	Points []GradientPoint `json:"points"`
	Mode   string          `json:"mode,omitempty"`
}

// SceneUpdate is the body of a PUT on a scene resource.
type SceneUpdate struct {
	Recall *SceneRecall `json:"recall,omitempty"`
}

// SceneRecall asks the bridge to apply a scene.
type SceneRecall struct {
	Action   string   `json:"action,omitempty"`
	Duration *uint32  `json:"duration,omitempty"`
	Dimming  *Dimming `json:"dimming,omitempty"`
}

// StyleForMode maps a CLIP gradient mode to its zigbee style code.
// Unknown modes render as linear, matching what the hardware does with
// modes it predates.
func StyleForMode(mode string) zigbee.GradientStyle {
	switch mode {
	case GradientModeMirrored:
		return zigbee.StyleMirrored
	case GradientModePixelated:
		return zigbee.StyleScattered
	default:
		return zigbee.StyleLinear
	}
}

// LevelFromPercent converts CLIP brightness percent (0..100) to the
// zigbee level range 0..254.
func LevelFromPercent(pct float64) uint8 {
	level := math.Round(pct / 100 * 254)
	if level < 0 {
		level = 0
	}
	if level > 254 {
		level = 254
	}
	return uint8(level)
}

// PercentFromLevel converts a zigbee level 0..254 back to CLIP percent.
func PercentFromLevel(level uint8) float64 {
	return float64(level) / 254 * 100
}

// ZigbeeUpdate translates a resource-level update into the low-level
// frame builder, clamping colors against the target light's gamut. The
// returned update still needs encoding; range violations (mirek,
// brightness) surface there.
func (u LightUpdate) ZigbeeUpdate(gamut color.Gamut) (zigbee.Update, error) {
	zb := zigbee.NewUpdate()

	if u.On != nil {
		zb = zb.WithOnOff(u.On.On)
	}
	if u.Dimming != nil {
		zb = zb.WithBrightness(LevelFromPercent(u.Dimming.Brightness))
	}
	if u.Color != nil {
		zb = zb.WithColor(gamut.Clamp(u.Color.XY))
	}
	if u.ColorTemperature != nil {
		zb = zb.WithColorTemperature(u.ColorTemperature.Mirek)
	}
	if u.Gradient != nil {
		points := make([]color.XY, len(u.Gradient.Points))
		for i, gp := range u.Gradient.Points {
			points[i] = gp.Color.XY
		}
		var err error
		zb, err = zb.WithGradientColors(StyleForMode(u.Gradient.Mode), gamut, points)
		if err != nil {
			return zigbee.Update{}, err
		}
	}

	return zb, nil
}

// Apply folds an update into the stored light resource so subsequent GETs
// reflect the new state. Fields the light does not carry are ignored, the
// same way real hardware ignores attributes it lacks.
func (u LightUpdate) Apply(l *Light) {
	if u.On != nil {
		l.On.On = u.On.On
	}
	if u.Dimming != nil && l.Dimming != nil {
		l.Dimming.Brightness = u.Dimming.Brightness
	}
	if u.Color != nil && l.Color != nil {
		l.Color.XY = l.GamutOf().Clamp(u.Color.XY)
		if l.ColorTemperature != nil {
			l.ColorTemperature.MirekValid = false
		}
	}
	if u.ColorTemperature != nil && l.ColorTemperature != nil {
		mirek := u.ColorTemperature.Mirek
		l.ColorTemperature.Mirek = &mirek
		l.ColorTemperature.MirekValid = true
	}
	if u.Gradient != nil && l.Gradient != nil {
		gamut := l.GamutOf()
		points := make([]GradientPoint, len(u.Gradient.Points))
		for i, gp := range u.Gradient.Points {
			points[i] = NewGradientPoint(gamut.Clamp(gp.Color.XY))
		}
		l.Gradient.Points = points
		if u.Gradient.Mode != "" {
			l.Gradient.Mode = u.Gradient.Mode
		}
	}
}
