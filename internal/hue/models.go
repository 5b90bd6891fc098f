// Package hue defines the CLIP v2 resource model served by the emulated
// bridge, the legacy v1 shapes derived from it, and the translation from
// resource-level updates to low-level zigbee frames.
package hue

import (
	"github.com/luxbridge/luxd/internal/color"
)

// Resource types (CLIP API rtype values).
const (
	RTypeBridge       = "bridge"
	RTypeBridgeHome   = "bridge_home"
	RTypeDevice       = "device"
	RTypeLight        = "light"
	RTypeGroupedLight = "grouped_light"
	RTypeScene        = "scene"
)

// Gradient rendering modes exposed by the CLIP API. These map to the
// zigbee gradient style codes, see StyleForMode.
const (
	GradientModeInterpolated = "interpolated_palette"
	GradientModeMirrored     = "interpolated_palette_mirrored"
	GradientModePixelated    = "random_pixelated"
)

// ResourceRef is a typed reference to another resource.
type ResourceRef struct {
	RID   string `json:"rid"`
	RType string `json:"rtype"`
}

// Metadata carries the user-visible name and archetype of a resource.
type Metadata struct {
	Name      string `json:"name"`
	Archetype string `json:"archetype,omitempty"`
}

// On is the power state fragment.
type On struct {
	On bool `json:"on"`
}

// Dimming is the brightness fragment, in percent (0..100).
type Dimming struct {
	Brightness float64 `json:"brightness"`
}

// MirekSchema advertises the color temperature range a light supports.
type MirekSchema struct {
	MirekMinimum uint16 `json:"mirek_minimum"`
	MirekMaximum uint16 `json:"mirek_maximum"`
}

// ColorTemperature is the white-tone fragment.
type ColorTemperature struct {
	Mirek       *uint16     `json:"mirek"`
	MirekValid  bool        `json:"mirek_valid"`
	MirekSchema MirekSchema `json:"mirek_schema"`
}

// Color is the color fragment. Gamut and GamutType report the light's
// physical color triangle; the preset values published here are a
// contract with clients and must match the internal clamping tables.
type Color struct {
	XY        color.XY     `json:"xy"`
	Gamut     *color.Gamut `json:"gamut,omitempty"`
	GamutType string       `json:"gamut_type,omitempty"`
}

// GradientPoint is a single color stop in a gradient.
type GradientPoint struct {
	Color struct {
		XY color.XY `json:"xy"`
	} `json:"color"`
}

// NewGradientPoint wraps an xy point in the CLIP gradient point shape.
func NewGradientPoint(p color.XY) GradientPoint {
	var gp GradientPoint
	gp.Color.XY = p
	return gp
}

// Gradient is the multi-segment color pattern fragment of a light.
type Gradient struct {
	Points        []GradientPoint `json:"points"`
	Mode          string          `json:"mode"`
	ModeValues    []string        `json:"mode_values,omitempty"`
	PointsCapable int             `json:"points_capable,omitempty"`
	PixelCount    int             `json:"pixel_count,omitempty"`
}

// Light is a CLIP v2 light resource.
type Light struct {
	ID               string            `json:"id"`
	IDV1             string            `json:"id_v1,omitempty"`
	Type             string            `json:"type"`
	Owner            *ResourceRef      `json:"owner,omitempty"`
	Metadata         Metadata          `json:"metadata"`
	On               On                `json:"on"`
	Dimming          *Dimming          `json:"dimming,omitempty"`
	ColorTemperature *ColorTemperature `json:"color_temperature,omitempty"`
	Color            *Color            `json:"color,omitempty"`
	Gradient         *Gradient         `json:"gradient,omitempty"`
}

// GamutOf returns the clamping gamut for the light: the triangle it
// reports in capabilities, falling back to the named preset, then to
// Gamut C for lights that report nothing.
func (l *Light) GamutOf() color.Gamut {
	if l.Color != nil {
		if l.Color.Gamut != nil {
			return *l.Color.Gamut
		}
		if l.Color.GamutType != "" {
			return color.ByName(l.Color.GamutType)
		}
	}
	return color.GamutC
}

// GroupedLight is a CLIP v2 grouped_light resource.
type GroupedLight struct {
	ID      string       `json:"id"`
	IDV1    string       `json:"id_v1,omitempty"`
	Type    string       `json:"type"`
	Owner   *ResourceRef `json:"owner,omitempty"`
	On      On           `json:"on"`
	Dimming *Dimming     `json:"dimming,omitempty"`
}

// Device is a CLIP v2 device resource.
type Device struct {
	ID          string        `json:"id"`
	IDV1        string        `json:"id_v1,omitempty"`
	Type        string        `json:"type"`
	Metadata    Metadata      `json:"metadata"`
	ProductData ProductData   `json:"product_data"`
	Services    []ResourceRef `json:"services"`
}

// ProductData describes the hardware behind a device resource.
type ProductData struct {
	ModelID              string `json:"model_id"`
	ManufacturerName     string `json:"manufacturer_name"`
	ProductName          string `json:"product_name"`
	ProductArchetype     string `json:"product_archetype"`
	Certified            bool   `json:"certified"`
	SoftwareVersion      string `json:"software_version"`
	HardwarePlatformType string `json:"hardware_platform_type,omitempty"`
}

// Bridge is the CLIP v2 bridge resource.
type Bridge struct {
	ID       string       `json:"id"`
	IDV1     string       `json:"id_v1,omitempty"`
	Type     string       `json:"type"`
	Owner    *ResourceRef `json:"owner,omitempty"`
	BridgeID string       `json:"bridge_id"`
	TimeZone struct {
		TimeZone string `json:"time_zone"`
	} `json:"time_zone"`
}

// SceneAction pairs a target light with the state a scene recalls on it.
type SceneAction struct {
	Target ResourceRef `json:"target"`
	Action LightUpdate `json:"action"`
}

// Scene is a CLIP v2 scene resource.
type Scene struct {
	ID       string        `json:"id"`
	IDV1     string        `json:"id_v1,omitempty"`
	Type     string        `json:"type"`
	Metadata Metadata      `json:"metadata"`
	Group    ResourceRef   `json:"group"`
	Actions  []SceneAction `json:"actions"`
}
