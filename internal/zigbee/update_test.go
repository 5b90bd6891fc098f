package zigbee

import (
	"errors"
	"testing"

	"github.com/luxbridge/luxd/internal/color"
)

func TestWithGradientColors_Limits(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "one_point", count: 1, wantErr: nil},
		{name: "nine_points", count: 9, wantErr: nil},
		{name: "ten_points", count: 10, wantErr: &GradientLengthError{Count: 10}},
		{name: "zero_points", count: 0, wantErr: ErrEmptyGradient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]color.XY, tt.count)
			for i := range points {
				points[i] = color.GamutC.Red
			}

			_, err := NewUpdate().WithGradientColors(StyleLinear, color.GamutC, points)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("WithGradientColors(%d points) = %v, want nil", tt.count, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("WithGradientColors(%d points) succeeded, want error", tt.count)
			}
			var lenErr *GradientLengthError
			switch {
			case errors.Is(tt.wantErr, ErrEmptyGradient):
				if !errors.Is(err, ErrEmptyGradient) {
					t.Errorf("error = %v, want ErrEmptyGradient", err)
				}
			case errors.As(err, &lenErr):
				if lenErr.Count != tt.count {
					t.Errorf("GradientLengthError.Count = %d, want %d", lenErr.Count, tt.count)
				}
			default:
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithGradientColors_ClampsThroughGamut(t *testing.T) {
	// A point far outside the gamut must be stored clamped, not raw.
	outside := color.XY{X: 0.05, Y: 0.95}
	u, err := NewUpdate().WithGradientColors(StyleLinear, color.GamutC, []color.XY{outside})
	if err != nil {
		t.Fatalf("WithGradientColors: %v", err)
	}

	stored := u.gradient.points[0]
	if stored == outside {
		t.Error("gradient point was stored without gamut clamping")
	}
	if want := color.GamutC.Clamp(outside); stored != want {
		t.Errorf("stored point = %v, want clamped %v", stored, want)
	}
}

func TestWithGradientColors_LeavesReceiverOnError(t *testing.T) {
	base := NewUpdate().WithOnOff(true)
	u, err := base.WithGradientColors(StyleLinear, color.GamutC, nil)
	if err == nil {
		t.Fatal("expected error for empty gradient")
	}
	if u.gradient != nil {
		t.Error("failed setter must not attach a gradient")
	}
}

func TestWithGradientParams_NoOpWithoutColors(t *testing.T) {
	// Policy: params before colors is a silent no-op, not an error.
	u := NewUpdate().WithGradientParams(GradientParams{Scale: 0x10, Offset: 0x02})
	if u.gradient != nil {
		t.Fatal("WithGradientParams before WithGradientColors must not create a gradient")
	}

	b, err := u.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(b) != 1 || b[0] != 0x00 {
		t.Errorf("empty update encoded as %x, want 00", b)
	}
}

func TestWithGradientParams_Overwrites(t *testing.T) {
	u, err := NewUpdate().WithGradientColors(StyleMirrored, color.GamutC, []color.XY{color.GamutC.Green})
	if err != nil {
		t.Fatalf("WithGradientColors: %v", err)
	}

	if u.gradient.params != (GradientParams{}) {
		t.Errorf("default params = %+v, want zero", u.gradient.params)
	}

	u = u.WithGradientParams(GradientParams{Scale: 0x38, Offset: 0x01})
	if u.gradient.params.Scale != 0x38 || u.gradient.params.Offset != 0x01 {
		t.Errorf("params = %+v after overwrite", u.gradient.params)
	}
}

func TestSetters_DoNotTouchPreviousValue(t *testing.T) {
	base, err := NewUpdate().
		WithOnOff(false).
		WithBrightness(10).
		WithGradientColors(StyleLinear, color.GamutC, []color.XY{color.GamutC.Red})
	if err != nil {
		t.Fatalf("building base: %v", err)
	}

	derived := base.WithOnOff(true).
		WithBrightness(200).
		WithGradientParams(GradientParams{Scale: 0x7f, Offset: 0x03})

	if *base.on || *base.brightness != 10 {
		t.Error("derived setters mutated the base scalar fields")
	}
	if base.gradient.params != (GradientParams{}) {
		t.Error("derived WithGradientParams mutated the base gradient")
	}
	if !*derived.on || *derived.brightness != 200 {
		t.Error("derived update lost its own values")
	}
}

func TestWithColorAndTemperature(t *testing.T) {
	u := NewUpdate().
		WithColor(color.XY{X: 0.3, Y: 0.3}).
		WithColorTemperature(300)

	if u.color == nil || u.color.X != 0.3 {
		t.Error("WithColor did not store the point")
	}
	if u.mirek == nil || *u.mirek != 300 {
		t.Error("WithColorTemperature did not store the value")
	}
}
