package hue

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luxbridge/luxd/internal/color"
	"github.com/luxbridge/luxd/internal/zigbee"
)

func TestStyleForMode(t *testing.T) {
	tests := []struct {
		mode string
		want zigbee.GradientStyle
	}{
		{mode: GradientModeInterpolated, want: zigbee.StyleLinear},
		{mode: GradientModeMirrored, want: zigbee.StyleMirrored},
		{mode: GradientModePixelated, want: zigbee.StyleScattered},
		{mode: "", want: zigbee.StyleLinear},
		{mode: "some_future_mode", want: zigbee.StyleLinear},
	}

	for _, tt := range tests {
		if got := StyleForMode(tt.mode); got != tt.want {
			t.Errorf("StyleForMode(%q) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestLevelFromPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want uint8
	}{
		{pct: 0, want: 0},
		{pct: 100, want: 254},
		{pct: 50, want: 127},
		{pct: 120, want: 254},
		{pct: -5, want: 0},
	}

	for _, tt := range tests {
		if got := LevelFromPercent(tt.pct); got != tt.want {
			t.Errorf("LevelFromPercent(%v) = %d, want %d", tt.pct, got, tt.want)
		}
	}
}

func TestZigbeeUpdate_MatchesDirectBuild(t *testing.T) {
	mirek := uint16(366)
	u := LightUpdate{
		On:               &On{On: true},
		Dimming:          &Dimming{Brightness: 100},
		ColorTemperature: &ColorTemperatureUpdate{Mirek: mirek},
	}

	zb, err := u.ZigbeeUpdate(color.GamutC)
	if err != nil {
		t.Fatalf("ZigbeeUpdate: %v", err)
	}
	got, err := zb.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	want, err := zigbee.NewUpdate().
		WithOnOff(true).
		WithBrightness(254).
		WithColorTemperature(366).
		Bytes()
	if err != nil {
		t.Fatalf("direct Bytes: %v", err)
	}

	if !bytes.Equal(got, want) {
		t.Errorf("frame = %x, want %x", got, want)
	}
}

func TestZigbeeUpdate_GradientThroughGamut(t *testing.T) {
	u := LightUpdate{
		Gradient: &GradientUpdate{
			Mode: GradientModeMirrored,
			Points: []GradientPoint{
				NewGradientPoint(color.XY{X: 0.05, Y: 0.95}), // outside gamut C
				NewGradientPoint(color.GamutC.Blue),
			},
		},
	}

	zb, err := u.ZigbeeUpdate(color.GamutC)
	if err != nil {
		t.Fatalf("ZigbeeUpdate: %v", err)
	}
	frame, err := zb.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	// flags, style, count, 2 points, scale, offset
	if len(frame) != 1+1+1+8+2 {
		t.Fatalf("frame length = %d", len(frame))
	}
	if frame[0] != 0x10 {
		t.Errorf("flags = %#02x, want gradient only", frame[0])
	}
	if frame[1] != byte(zigbee.StyleMirrored) {
		t.Errorf("style = %#02x, want mirrored", frame[1])
	}

	// The first point was outside the gamut, so the encoded value must be
	// the clamped point, not the raw one.
	clamped := color.GamutC.Clamp(color.XY{X: 0.05, Y: 0.95})
	direct, err := zigbee.NewUpdate().WithGradientColors(
		zigbee.StyleMirrored, color.GamutC,
		[]color.XY{clamped, color.GamutC.Blue},
	)
	if err != nil {
		t.Fatalf("direct build: %v", err)
	}
	want, err := direct.Bytes()
	if err != nil {
		t.Fatalf("direct Bytes: %v", err)
	}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = %x, want %x", frame, want)
	}
}

func TestZigbeeUpdate_GradientErrorPropagates(t *testing.T) {
	points := make([]GradientPoint, 10)
	for i := range points {
		points[i] = NewGradientPoint(color.GamutC.Red)
	}
	u := LightUpdate{Gradient: &GradientUpdate{Points: points}}

	_, err := u.ZigbeeUpdate(color.GamutC)
	var lenErr *zigbee.GradientLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("error = %v, want GradientLengthError", err)
	}
	if lenErr.Count != 10 {
		t.Errorf("Count = %d, want 10", lenErr.Count)
	}
}

func TestApply(t *testing.T) {
	mirek := uint16(250)
	light := Light{
		Type: RTypeLight,
		On:   On{On: false},
		Dimming: &Dimming{Brightness: 10},
		ColorTemperature: &ColorTemperature{
			Mirek:       &mirek,
			MirekValid:  true,
			MirekSchema: MirekSchema{MirekMinimum: 153, MirekMaximum: 500},
		},
		Color: &Color{XY: color.XY{X: 0.3, Y: 0.3}, GamutType: "C"},
		Gradient: &Gradient{
			Mode:          GradientModeInterpolated,
			PointsCapable: 5,
		},
	}

	update := LightUpdate{
		On:      &On{On: true},
		Dimming: &Dimming{Brightness: 75},
		Color:   &ColorUpdate{XY: color.XY{X: 0.05, Y: 0.95}},
		Gradient: &GradientUpdate{
			Mode:   GradientModeMirrored,
			Points: []GradientPoint{NewGradientPoint(color.GamutC.Red)},
		},
	}
	update.Apply(&light)

	if !light.On.On {
		t.Error("power not applied")
	}
	if light.Dimming.Brightness != 75 {
		t.Errorf("brightness = %v, want 75", light.Dimming.Brightness)
	}
	if want := color.GamutC.Clamp(color.XY{X: 0.05, Y: 0.95}); light.Color.XY != want {
		t.Errorf("color = %v, want clamped %v", light.Color.XY, want)
	}
	if light.ColorTemperature.MirekValid {
		t.Error("setting a color must invalidate mirek")
	}
	if light.Gradient.Mode != GradientModeMirrored {
		t.Errorf("gradient mode = %q", light.Gradient.Mode)
	}
	if len(light.Gradient.Points) != 1 {
		t.Fatalf("gradient points = %d, want 1", len(light.Gradient.Points))
	}
}

func TestApply_IgnoresMissingCapabilities(t *testing.T) {
	// A plain on/off light has no dimming/color fields; updates touching
	// them must be ignored, not panic.
	light := Light{Type: RTypeLight}
	update := LightUpdate{
		On:               &On{On: true},
		Dimming:          &Dimming{Brightness: 50},
		Color:            &ColorUpdate{XY: color.GamutC.Red},
		ColorTemperature: &ColorTemperatureUpdate{Mirek: 300},
		Gradient:         &GradientUpdate{Points: []GradientPoint{NewGradientPoint(color.GamutC.Red)}},
	}
	update.Apply(&light)

	if !light.On.On {
		t.Error("power not applied")
	}
	if light.Dimming != nil || light.Color != nil || light.ColorTemperature != nil || light.Gradient != nil {
		t.Error("update must not invent capabilities the light lacks")
	}
}

func TestGamutOf(t *testing.T) {
	custom := color.Gamut{
		Red:   color.XY{X: 0.7, Y: 0.3},
		Green: color.XY{X: 0.2, Y: 0.7},
		Blue:  color.XY{X: 0.15, Y: 0.05},
	}

	tests := []struct {
		name  string
		light Light
		want  color.Gamut
	}{
		{name: "explicit_gamut", light: Light{Color: &Color{Gamut: &custom}}, want: custom},
		{name: "named_preset", light: Light{Color: &Color{GamutType: "B"}}, want: color.GamutB},
		{name: "no_color_info", light: Light{}, want: color.GamutC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.light.GamutOf(); got != tt.want {
				t.Errorf("GamutOf() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
