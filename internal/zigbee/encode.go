package zigbee

import (
	"encoding/binary"
	"math"
)

// Hardware limits enforced at encode time.
const (
	MaxBrightness = 254
	MinMirek      = 153
	MaxMirek      = 500
)

// Flags byte bits, one per optional field, in wire order.
const (
	flagOnOff uint8 = 1 << iota
	flagBrightness
	flagColor
	flagMirek
	flagGradient
)

// Bytes validates the accumulated fields and serializes them into the
// fixed-layout frame consumed by gradient-capable luminaires. Validation
// and serialization are atomic: either the full frame is returned or no
// bytes at all. A malformed frame would be silently misinterpreted by the
// receiving hardware, which reports no protocol errors back, so there is
// no tolerance for partial output.
//
// The frame starts with a flags byte (bit0 power, bit1 brightness,
// bit2 color, bit3 color temperature, bit4 gradient) followed by the
// present fields in ascending bit order. Absent fields contribute zero
// bytes. Multi-byte integers are little-endian. Encoding is a pure
// function of the update: identical updates produce byte-identical
// frames.
func (u Update) Bytes() ([]byte, error) {
	if u.brightness != nil && *u.brightness > MaxBrightness {
		return nil, &BrightnessRangeError{Value: *u.brightness}
	}
	if u.mirek != nil && (*u.mirek < MinMirek || *u.mirek > MaxMirek) {
		return nil, &MirekRangeError{Value: *u.mirek}
	}
	if u.gradient != nil {
		switch n := len(u.gradient.points); {
		case n == 0:
			return nil, ErrEmptyGradient
		case n > MaxGradientPoints:
			return nil, &GradientLengthError{Count: n}
		}
	}

	var flags uint8
	buf := make([]byte, 1, 16)

	if u.on != nil {
		flags |= flagOnOff
		if *u.on {
			buf = append(buf, 0x01)
		} else {
			buf = append(buf, 0x00)
		}
	}
	if u.brightness != nil {
		flags |= flagBrightness
		buf = append(buf, *u.brightness)
	}
	if u.color != nil {
		flags |= flagColor
		buf = appendXY(buf, u.color.X, u.color.Y)
	}
	if u.mirek != nil {
		flags |= flagMirek
		buf = binary.LittleEndian.AppendUint16(buf, *u.mirek)
	}
	if u.gradient != nil {
		flags |= flagGradient
		buf = append(buf, byte(u.gradient.style), byte(len(u.gradient.points)))
		for _, p := range u.gradient.points {
			buf = appendXY(buf, p.X, p.Y)
		}
		buf = append(buf, u.gradient.params.Scale, u.gradient.params.Offset)
	}

	buf[0] = flags
	return buf, nil
}

// appendXY appends a chromaticity point as two little-endian 16-bit
// fixed-point values, x first.
func appendXY(buf []byte, x, y float64) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, quantize(x))
	return binary.LittleEndian.AppendUint16(buf, quantize(y))
}

// quantize converts a unit-interval coordinate to its 16-bit fixed-point
// wire form: round(v * 65535) with half-away-from-zero rounding, clamped
// to the representable range.
func quantize(v float64) uint16 {
	q := math.Round(v * 65535)
	if q < 0 {
		q = 0
	}
	if q > 65535 {
		q = 65535
	}
	return uint16(q)
}
