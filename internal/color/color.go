// Package color provides normalized color values and bit-depth quantization
// for texcopy.
package color

// ColorF32 represents a color with float32 components in [0,1].
// Components are normalized and independent of storage bit depth.
type ColorF32 struct {
	R, G, B, A float32
}

// Gray returns a color with all color components set to v and the given alpha.
func Gray(v, a float32) ColorF32 {
	return ColorF32{R: v, G: v, B: v, A: a}
}
