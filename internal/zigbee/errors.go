package zigbee

import (
	"errors"
	"fmt"
)

// ErrEmptyGradient is returned when a gradient style is set with no colors.
var ErrEmptyGradient = errors.New("zigbee: gradient style set with no colors")

// GradientLengthError is returned when a gradient carries more colors than
// a frame can hold.
type GradientLengthError struct {
	Count int
}

func (e *GradientLengthError) Error() string {
	return fmt.Sprintf("zigbee: gradient has %d points, maximum is %d", e.Count, MaxGradientPoints)
}

// BrightnessRangeError is returned when the brightness level is outside
// 0..254. 255 is reserved by the addressed hardware's level-control
// convention and must never be emitted.
type BrightnessRangeError struct {
	Value uint8
}

func (e *BrightnessRangeError) Error() string {
	return fmt.Sprintf("zigbee: brightness %d out of range 0..%d", e.Value, MaxBrightness)
}

// MirekRangeError is returned when the color temperature is outside the
// 153..500 mirek range the hardware accepts.
type MirekRangeError struct {
	Value uint16
}

func (e *MirekRangeError) Error() string {
	return fmt.Sprintf("zigbee: color temperature %d mirek out of range %d..%d", e.Value, MinMirek, MaxMirek)
}
