package color

import "github.com/chewxy/math32"

// Rounding selects how a scaled channel value is rounded to an integer.
//
// Every mode stays within one least significant bit of the exact value,
// which is the tolerance hardware implementations are allowed.
type Rounding uint8

const (
	// RoundNearest rounds half away from zero.
	RoundNearest Rounding = iota

	// RoundHalfEven rounds half to the nearest even integer.
	RoundHalfEven

	// RoundTowardZero truncates the fractional part.
	RoundTowardZero
)

// String returns a string representation of the rounding mode.
func (r Rounding) String() string {
	switch r {
	case RoundNearest:
		return "nearest"
	case RoundHalfEven:
		return "half-even"
	case RoundTowardZero:
		return "toward-zero"
	default:
		return "unknown"
	}
}

// IsValid returns true if r is a known rounding mode.
func (r Rounding) IsValid() bool {
	return r <= RoundTowardZero
}

// MaxBits is the widest channel supported by the quantizer.
const MaxBits = 16

// MaxValue returns the largest integer representable in bits, 2^bits - 1.
// Returns 0 for bits outside [1, MaxBits].
func MaxValue(bits int) uint16 {
	if bits < 1 || bits > MaxBits {
		return 0
	}
	return uint16(uint32(1)<<bits - 1)
}

// Quantize converts a normalized value to an integer of the given bit width.
// Formula: round(v * (2^bits - 1)), clamped to [0, 2^bits - 1].
// NaN quantizes to 0.
func Quantize(v float32, bits int, r Rounding) uint16 {
	maxv := MaxValue(bits)
	if maxv == 0 || math32.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return maxv
	}

	scaled := v * float32(maxv)
	switch r {
	case RoundHalfEven:
		scaled = math32.RoundToEven(scaled)
	case RoundTowardZero:
		scaled = math32.Floor(scaled)
	default:
		scaled = math32.Round(scaled)
	}

	if scaled >= float32(maxv) {
		return maxv
	}
	return uint16(scaled)
}

// Dequantize converts an integer of the given bit width to a normalized value.
// Values above 2^bits - 1 are clamped to 1.
func Dequantize(q uint16, bits int) float32 {
	if bits == 8 {
		if q > 255 {
			return 1
		}
		return Unorm8ToFloat(uint8(q))
	}
	maxv := MaxValue(bits)
	if maxv == 0 {
		return 0
	}
	if q >= maxv {
		return 1
	}
	return float32(q) / float32(maxv)
}

// Requantize converts an integer between bit widths through the normalized
// value, using rounding mode r.
func Requantize(q uint16, fromBits, toBits int, r Rounding) uint16 {
	if fromBits == toBits {
		if maxv := MaxValue(toBits); q > maxv {
			return maxv
		}
		return q
	}
	return Quantize(Dequantize(q, fromBits), toBits, r)
}
