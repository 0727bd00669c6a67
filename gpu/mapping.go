// Package gpu describes how texcopy images map onto WebGPU textures.
//
// WebGPU has no luminance or alpha-only formats and no three-channel
// formats. Backends store such images in R, RG or RGBA textures and
// recover the sampled view with a component swizzle. This package computes
// that mapping, lays out texel data for queue writes and ships the compute
// kernel that performs channel selection on the device.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texcopy"
)

// ErrUnsupportedFormat is returned for formats with no texture mapping.
var ErrUnsupportedFormat = errors.New("gpu: unsupported format")

// Component is the source of one sampled component.
type Component uint8

const (
	ComponentR Component = iota
	ComponentG
	ComponentB
	ComponentA
	ComponentZero
	ComponentOne
)

// String returns the one-character name used in swizzle strings.
func (c Component) String() string {
	switch c {
	case ComponentR:
		return "R"
	case ComponentG:
		return "G"
	case ComponentB:
		return "B"
	case ComponentA:
		return "A"
	case ComponentZero:
		return "0"
	case ComponentOne:
		return "1"
	default:
		return "?"
	}
}

// Swizzle maps the texture's stored components to sampled R, G, B, A.
type Swizzle [4]Component

// Common swizzles.
var (
	SwizzleIdentity  = Swizzle{ComponentR, ComponentG, ComponentB, ComponentA}
	SwizzleRGB1      = Swizzle{ComponentR, ComponentG, ComponentB, ComponentOne}
	SwizzleLuminance = Swizzle{ComponentR, ComponentR, ComponentR, ComponentOne}
	SwizzleLumAlpha  = Swizzle{ComponentR, ComponentR, ComponentR, ComponentG}
	SwizzleAlpha     = Swizzle{ComponentZero, ComponentZero, ComponentZero, ComponentR}
)

// String returns the swizzle as four characters, for example "RRR1".
func (s Swizzle) String() string {
	return s[0].String() + s[1].String() + s[2].String() + s[3].String()
}

// Apply returns the sampled color for stored texture components.
func (s Swizzle) Apply(stored [4]float32) [4]float32 {
	var out [4]float32
	for i, c := range s {
		switch c {
		case ComponentZero:
			out[i] = 0
		case ComponentOne:
			out[i] = 1
		default:
			out[i] = stored[c]
		}
	}
	return out
}

// Mapping describes the texture backing a texcopy format.
type Mapping struct {
	// Texture is the WebGPU texture format.
	Texture gputypes.TextureFormat

	// Storage is the texcopy format whose bytes match Texture texel for
	// texel. It may be wider than the source format.
	Storage texcopy.Format

	// Swizzle recovers the sampled view from the stored components.
	Swizzle Swizzle
}

// Widens reports whether uploading requires converting to Storage.
func (m Mapping) Widens(f texcopy.Format) bool {
	return m.Storage != f
}

// TextureFormatFor returns the texture mapping of f. Channels of up to 8
// bits map to 8-bit Unorm textures and wider channels to 16-bit ones; RGB
// is stored as RGBA with alpha one.
func TextureFormatFor(f texcopy.Format) (Mapping, error) {
	if !f.IsValid() {
		return Mapping{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	wide := false
	for _, c := range f.Layout.Channels() {
		if f.Depth.Bits(c) > 8 {
			wide = true
		}
	}
	depth := texcopy.Depth8
	if wide {
		depth = texcopy.Depth16
	}

	pick := func(narrow, wider gputypes.TextureFormat) gputypes.TextureFormat {
		if wide {
			return wider
		}
		return narrow
	}

	switch f.Layout {
	case texcopy.RGBA:
		return Mapping{
			Texture: pick(gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA16Unorm),
			Storage: texcopy.Format{Layout: texcopy.RGBA, Depth: depth},
			Swizzle: SwizzleIdentity,
		}, nil
	case texcopy.RGB:
		return Mapping{
			Texture: pick(gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA16Unorm),
			Storage: texcopy.Format{Layout: texcopy.RGBA, Depth: depth},
			Swizzle: SwizzleRGB1,
		}, nil
	case texcopy.Luminance:
		return Mapping{
			Texture: pick(gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR16Unorm),
			Storage: texcopy.Format{Layout: texcopy.Luminance, Depth: depth},
			Swizzle: SwizzleLuminance,
		}, nil
	case texcopy.LuminanceAlpha:
		return Mapping{
			Texture: pick(gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatRG16Unorm),
			Storage: texcopy.Format{Layout: texcopy.LuminanceAlpha, Depth: depth},
			Swizzle: SwizzleLumAlpha,
		}, nil
	case texcopy.Alpha:
		return Mapping{
			Texture: pick(gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR16Unorm),
			Storage: texcopy.Format{Layout: texcopy.Alpha, Depth: depth},
			Swizzle: SwizzleAlpha,
		}, nil
	}
	return Mapping{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}
