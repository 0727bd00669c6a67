// Package image provides texel storage for texcopy.
//
// This package implements the memory side of copy operations: channel
// layouts, per-channel bit depths, and strided buffers holding unpacked
// channel values.
package image

import (
	"strconv"
	"strings"
)

// Layout represents the set of channels an image stores.
type Layout uint8

const (
	// LayoutRGBA stores red, green, blue and alpha.
	LayoutRGBA Layout = iota

	// LayoutRGB stores red, green and blue. Alpha reads as 1.
	LayoutRGB

	// LayoutLuminance stores a single luminance channel.
	LayoutLuminance

	// LayoutLuminanceAlpha stores luminance followed by alpha.
	LayoutLuminanceAlpha

	// LayoutAlpha stores alpha only.
	LayoutAlpha

	// layoutCount is the number of layouts (for internal use).
	layoutCount
)

// Channel identifies one stored component of a texel.
type Channel uint8

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
	ChannelA
	ChannelL
)

// String returns the one-letter name of the channel.
func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "R"
	case ChannelG:
		return "G"
	case ChannelB:
		return "B"
	case ChannelA:
		return "A"
	case ChannelL:
		return "L"
	default:
		return "?"
	}
}

// LayoutInfo contains metadata about a channel layout.
type LayoutInfo struct {
	// Channels lists the stored channels in memory order.
	Channels []Channel

	// HasColor indicates if the layout carries color (RGB or luminance).
	HasColor bool

	// HasAlpha indicates if the layout has an alpha channel.
	HasAlpha bool

	// IsLuminance indicates if color is stored as a single luminance value.
	IsLuminance bool
}

// layoutInfoTable contains metadata for each layout.
var layoutInfoTable = [layoutCount]LayoutInfo{
	LayoutRGBA: {
		Channels: []Channel{ChannelR, ChannelG, ChannelB, ChannelA},
		HasColor: true,
		HasAlpha: true,
	},
	LayoutRGB: {
		Channels: []Channel{ChannelR, ChannelG, ChannelB},
		HasColor: true,
	},
	LayoutLuminance: {
		Channels:    []Channel{ChannelL},
		HasColor:    true,
		IsLuminance: true,
	},
	LayoutLuminanceAlpha: {
		Channels:    []Channel{ChannelL, ChannelA},
		HasColor:    true,
		HasAlpha:    true,
		IsLuminance: true,
	},
	LayoutAlpha: {
		Channels: []Channel{ChannelA},
		HasAlpha: true,
	},
}

// Info returns the LayoutInfo for this layout.
func (l Layout) Info() LayoutInfo {
	if l >= layoutCount {
		return LayoutInfo{}
	}
	return layoutInfoTable[l]
}

// Channels returns the stored channels in memory order.
func (l Layout) Channels() []Channel {
	return l.Info().Channels
}

// NumChannels returns the number of stored channels.
func (l Layout) NumChannels() int {
	return len(l.Info().Channels)
}

// HasColor returns true if this layout stores color information.
func (l Layout) HasColor() bool {
	return l.Info().HasColor
}

// HasAlpha returns true if this layout has an alpha channel.
func (l Layout) HasAlpha() bool {
	return l.Info().HasAlpha
}

// IsLuminance returns true if color is stored as luminance.
func (l Layout) IsLuminance() bool {
	return l.Info().IsLuminance
}

// IsValid returns true if the layout is a valid known layout.
func (l Layout) IsValid() bool {
	return l < layoutCount
}

// Has reports whether the layout stores channel c.
func (l Layout) Has(c Channel) bool {
	for _, ch := range l.Channels() {
		if ch == c {
			return true
		}
	}
	return false
}

// String returns a string representation of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutRGBA:
		return "RGBA"
	case LayoutRGB:
		return "RGB"
	case LayoutLuminance:
		return "L"
	case LayoutLuminanceAlpha:
		return "LA"
	case LayoutAlpha:
		return "A"
	default:
		return "Unknown"
	}
}

// Depth captures the bit width of each channel.
// Luminance is stored with the width of R.
type Depth struct {
	R, G, B, A uint8
}

// Common depths.
var (
	Depth8       = Depth{R: 8, G: 8, B: 8, A: 8}
	Depth16      = Depth{R: 16, G: 16, B: 16, A: 16}
	Depth565     = Depth{R: 5, G: 6, B: 5}
	Depth4444    = Depth{R: 4, G: 4, B: 4, A: 4}
	Depth5551    = Depth{R: 5, G: 5, B: 5, A: 1}
	Depth1010102 = Depth{R: 10, G: 10, B: 10, A: 2}
)

// MaxChannelBits is the widest channel a buffer can store.
const MaxChannelBits = 16

// Bits returns the bit width of channel c.
func (d Depth) Bits(c Channel) int {
	switch c {
	case ChannelR, ChannelL:
		return int(d.R)
	case ChannelG:
		return int(d.G)
	case ChannelB:
		return int(d.B)
	case ChannelA:
		return int(d.A)
	default:
		return 0
	}
}

// Format is a channel layout paired with per-channel bit widths.
type Format struct {
	Layout Layout
	Depth  Depth
}

// IsValid returns true if the layout is known and every stored channel
// has between 1 and MaxChannelBits bits.
func (f Format) IsValid() bool {
	if !f.Layout.IsValid() {
		return false
	}
	for _, c := range f.Layout.Channels() {
		bits := f.Depth.Bits(c)
		if bits < 1 || bits > MaxChannelBits {
			return false
		}
	}
	return true
}

// ChannelBytes returns the storage size of a channel with the given width.
func ChannelBytes(bits int) int {
	if bits > 8 {
		return 2
	}
	return 1
}

// BytesPerPixel returns the number of bytes per texel for this format.
// Returns 0 for invalid formats.
func (f Format) BytesPerPixel() int {
	if !f.IsValid() {
		return 0
	}
	n := 0
	for _, c := range f.Layout.Channels() {
		n += ChannelBytes(f.Depth.Bits(c))
	}
	return n
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// Uniform returns the common bit width if all stored channels share one,
// or 0 otherwise.
func (f Format) Uniform() int {
	bits := 0
	for i, c := range f.Layout.Channels() {
		b := f.Depth.Bits(c)
		if i == 0 {
			bits = b
		} else if b != bits {
			return 0
		}
	}
	return bits
}

// String returns a string representation of the format, for example
// "RGBA8", "LA16" or "RGB565".
func (f Format) String() string {
	if !f.Layout.IsValid() {
		return "Unknown"
	}
	if bits := f.Uniform(); bits > 0 {
		return f.Layout.String() + strconv.Itoa(bits)
	}

	var sb strings.Builder
	sb.WriteString(f.Layout.String())
	for _, c := range f.Layout.Channels() {
		sb.WriteString(strconv.Itoa(f.Depth.Bits(c)))
	}
	return sb.String()
}
