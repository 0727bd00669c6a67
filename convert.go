package texcopy

import intColor "github.com/gogpu/texcopy/internal/color"

// Color is a normalized RGBA color with components in [0,1].
type Color = intColor.ColorF32

// Rounding selects how scaled channel values become integers.
type Rounding = intColor.Rounding

// Rounding modes.
const (
	RoundNearest    = intColor.RoundNearest
	RoundHalfEven   = intColor.RoundHalfEven
	RoundTowardZero = intColor.RoundTowardZero
)

// Channels holds normalized channel values in storage order of a layout.
type Channels [4]float32

// Decompose expands a stored texel of format f into normalized RGBA.
// Missing color channels read as 0 and missing alpha reads as 1:
//
//	RGBA -> (r,g,b,a)  RGB -> (r,g,b,1)  L -> (l,l,l,1)
//	LA   -> (l,l,l,a)  A   -> (0,0,0,a)
func Decompose(t Texel, f Format) Color {
	d := f.Depth
	switch f.Layout {
	case RGBA:
		return Color{
			R: intColor.Dequantize(t[0], int(d.R)),
			G: intColor.Dequantize(t[1], int(d.G)),
			B: intColor.Dequantize(t[2], int(d.B)),
			A: intColor.Dequantize(t[3], int(d.A)),
		}
	case RGB:
		return Color{
			R: intColor.Dequantize(t[0], int(d.R)),
			G: intColor.Dequantize(t[1], int(d.G)),
			B: intColor.Dequantize(t[2], int(d.B)),
			A: 1,
		}
	case Luminance:
		return intColor.Gray(intColor.Dequantize(t[0], int(d.R)), 1)
	case LuminanceAlpha:
		return intColor.Gray(intColor.Dequantize(t[0], int(d.R)), intColor.Dequantize(t[1], int(d.A)))
	case Alpha:
		return Color{A: intColor.Dequantize(t[0], int(d.A))}
	default:
		return Color{}
	}
}

// SelectChannels picks the channels a destination layout stores from a
// decomposed source color. Luminance takes the red component.
func SelectChannels(src Color, dst Layout) Channels {
	switch dst {
	case RGBA:
		return Channels{src.R, src.G, src.B, src.A}
	case RGB:
		return Channels{src.R, src.G, src.B}
	case Luminance:
		return Channels{src.R}
	case LuminanceAlpha:
		return Channels{src.R, src.A}
	case Alpha:
		return Channels{src.A}
	default:
		return Channels{}
	}
}

// Encode quantizes normalized channels to the bit widths of f.
func Encode(ch Channels, f Format, r Rounding) Texel {
	var t Texel
	for i, c := range f.Layout.Channels() {
		t[i] = intColor.Quantize(ch[i], f.Depth.Bits(c), r)
	}
	return t
}

// Convert selects and quantizes src for format f.
func Convert(src Color, f Format, r Rounding) Texel {
	return Encode(SelectChannels(src, f.Layout), f, r)
}

// CheckFormatPair reports whether a copy from src to dst is supported: both
// formats must be valid, and dst must store at least one kind of channel
// (color or alpha) that src carries.
func CheckFormatPair(src, dst Format) error {
	if err := checkValid(src, dst); err != nil {
		return err
	}
	sl, dl := src.Layout, dst.Layout
	if (sl.HasColor() && dl.HasColor()) || (sl.HasAlpha() && dl.HasAlpha()) {
		return nil
	}
	return formatPairError(src, dst)
}

// CheckFormatPairStrict applies the GLES rule: every component of dst must
// be present in src. Luminance sources provide no red, green or blue.
func CheckFormatPairStrict(src, dst Format) error {
	if err := checkValid(src, dst); err != nil {
		return err
	}
	sl, dl := src.Layout, dst.Layout
	switch {
	case dl.HasAlpha() && !sl.HasAlpha():
		return formatPairError(src, dst)
	case dl.HasColor() && !sl.HasColor():
		return formatPairError(src, dst)
	case dl.HasColor() && !dl.IsLuminance() && sl.IsLuminance():
		return formatPairError(src, dst)
	}
	return nil
}

func checkValid(src, dst Format) error {
	if !src.IsValid() || !dst.IsValid() {
		return formatPairError(src, dst)
	}
	return nil
}

func formatPairError(src, dst Format) error {
	return &FormatPairError{Src: src, Dst: dst}
}

// FormatPairError reports an unsupported source/destination combination.
// It matches ErrUnsupportedFormatPair with errors.Is.
type FormatPairError struct {
	Src, Dst Format
}

func (e *FormatPairError) Error() string {
	return "texcopy: cannot copy " + e.Src.String() + " to " + e.Dst.String()
}

func (e *FormatPairError) Is(target error) bool {
	return target == ErrUnsupportedFormatPair
}

// checkPair dispatches on the strictness of an engine.
func checkPair(src, dst Format, strict bool) error {
	if strict {
		return CheckFormatPairStrict(src, dst)
	}
	return CheckFormatPair(src, dst)
}
