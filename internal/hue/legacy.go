package hue

import (
	"fmt"
	"net"
	"strings"

	"github.com/luxbridge/luxd/internal/color"
)

// Fixed identity the emulated bridge reports. Clients fingerprint on
// these, so they mirror a real BSB002 bridge.
const (
	BridgeModelID       = "BSB002"
	BridgeAPIVersion    = "1.66.0"
	BridgeSwVersion     = "1966060010"
	BridgeDatastoreVers = "163"
)

// BridgeIDFromMAC derives the 16-character bridge id from the bridge MAC
// address: the first three octets, the fixed fffe infix, then the last
// three octets.
func BridgeIDFromMAC(mac net.HardwareAddr) string {
	if len(mac) < 6 {
		mac = net.HardwareAddr{0, 0, 0, 0, 0, 0}
	}
	return strings.ToUpper(fmt.Sprintf("%02x%02x%02xfffe%02x%02x%02x",
		mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]))
}

// ShortConfig is the unauthenticated GET /api/config response.
type ShortConfig struct {
	APIVersion       string  `json:"apiversion"`
	BridgeID         string  `json:"bridgeid"`
	DatastoreVersion string  `json:"datastoreversion"`
	FactoryNew       bool    `json:"factorynew"`
	MAC              string  `json:"mac"`
	ModelID          string  `json:"modelid"`
	Name             string  `json:"name"`
	ReplacesBridgeID *string `json:"replacesbridgeid"`
	StarterKitID     string  `json:"starterkitid"`
	SwVersion        string  `json:"swversion"`
}

// NewShortConfig builds the short config for a bridge with the given
// name and MAC address.
func NewShortConfig(name string, mac net.HardwareAddr) ShortConfig {
	return ShortConfig{
		APIVersion:       BridgeAPIVersion,
		BridgeID:         BridgeIDFromMAC(mac),
		DatastoreVersion: BridgeDatastoreVers,
		FactoryNew:       false,
		MAC:              strings.ToLower(mac.String()),
		ModelID:          BridgeModelID,
		Name:             name,
		StarterKitID:     "",
		SwVersion:        BridgeSwVersion,
	}
}

// NewUserRequest is the POST /api body used to register an application.
type NewUserRequest struct {
	DeviceType        string `json:"devicetype"`
	GenerateClientKey *bool  `json:"generateclientkey,omitempty"`
}

// NewUserReply carries the credentials issued to a new application.
type NewUserReply struct {
	Username  string `json:"username"`
	ClientKey string `json:"clientkey,omitempty"`
}

// V1LightState is the legacy state block of a light.
type V1LightState struct {
	On        bool        `json:"on"`
	Bri       uint8       `json:"bri"`
	Ct        uint16      `json:"ct,omitempty"`
	XY        *[2]float64 `json:"xy,omitempty"`
	Alert     string      `json:"alert"`
	ColorMode string      `json:"colormode,omitempty"`
	Mode      string      `json:"mode"`
	Reachable bool        `json:"reachable"`
}

// V1Light is the legacy representation of a light resource.
type V1Light struct {
	State            V1LightState `json:"state"`
	Type             string       `json:"type"`
	Name             string       `json:"name"`
	ModelID          string       `json:"modelid"`
	ManufacturerName string       `json:"manufacturername"`
	ProductName      string       `json:"productname"`
	SwVersion        string       `json:"swversion"`
	UniqueID         string       `json:"uniqueid"`
}

// V1StateUpdate is the legacy PUT /api/<user>/lights/<id>/state body.
type V1StateUpdate struct {
	On             *bool       `json:"on,omitempty"`
	Bri            *uint8      `json:"bri,omitempty"`
	Ct             *uint16     `json:"ct,omitempty"`
	XY             *[2]float64 `json:"xy,omitempty"`
	TransitionTime *uint16     `json:"transitiontime,omitempty"`
}

// ToLightUpdate lifts a legacy state change into the v2 update shape so
// both API generations share one path down to the zigbee codec.
func (s V1StateUpdate) ToLightUpdate() LightUpdate {
	var u LightUpdate
	if s.On != nil {
		u.On = &On{On: *s.On}
	}
	if s.Bri != nil {
		u.Dimming = &Dimming{Brightness: PercentFromLevel(*s.Bri)}
	}
	if s.Ct != nil {
		u.ColorTemperature = &ColorTemperatureUpdate{Mirek: *s.Ct}
	}
	if s.XY != nil {
		u.Color = &ColorUpdate{XY: color.XY{X: s.XY[0], Y: s.XY[1]}}
	}
	return u
}

// V1LightFromResource projects a v2 light resource into its legacy shape.
func V1LightFromResource(l Light) V1Light {
	state := V1LightState{
		On:        l.On.On,
		Alert:     "select",
		Mode:      "homeautomation",
		Reachable: true,
	}
	if l.Dimming != nil {
		state.Bri = LevelFromPercent(l.Dimming.Brightness)
	}
	if l.ColorTemperature != nil && l.ColorTemperature.Mirek != nil {
		state.Ct = *l.ColorTemperature.Mirek
		if l.ColorTemperature.MirekValid {
			state.ColorMode = "ct"
		}
	}
	if l.Color != nil {
		state.XY = &[2]float64{l.Color.XY.X, l.Color.XY.Y}
		if state.ColorMode == "" {
			state.ColorMode = "xy"
		}
	}

	typ := "Dimmable light"
	switch {
	case l.Gradient != nil:
		typ = "Extended color light"
	case l.Color != nil:
		typ = "Extended color light"
	case l.ColorTemperature != nil:
		typ = "Color temperature light"
	}

	return V1Light{
		State:            state,
		Type:             typ,
		Name:             l.Metadata.Name,
		ModelID:          "LCX004",
		ManufacturerName: "Signify Netherlands B.V.",
		ProductName:      l.Metadata.Name,
		SwVersion:        BridgeSwVersion,
		UniqueID:         l.ID,
	}
}
