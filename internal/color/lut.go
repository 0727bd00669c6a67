package color

// unorm8ToFloatLUT provides O(1) 8-bit unsigned normalized decoding.
// Pre-computed 256 entries, 1KB memory cost.
// Converts byte [0-255] to float32 [0.0-1.0].
var unorm8ToFloatLUT [256]float32

func init() {
	for i := 0; i < 256; i++ {
		unorm8ToFloatLUT[i] = float32(i) / 255.0
	}
}

// Unorm8ToFloat converts an 8-bit normalized integer to float32 using the
// lookup table.
func Unorm8ToFloat(q uint8) float32 {
	return unorm8ToFloatLUT[q]
}

// Unorm8ToFloatSlow is the reference implementation of Unorm8ToFloat.
// Used for testing and verification only.
func Unorm8ToFloatSlow(q uint8) float32 {
	return float32(q) / 255.0
}
