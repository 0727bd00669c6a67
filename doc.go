// Package texcopy converts framebuffer pixels into texture images.
//
// # Overview
//
// texcopy implements the pixel transfer behind "copy tex image" and
// "copy tex sub image" requests of a graphics API translation layer. A copy
// reads a rectangle of texels from a source (a framebuffer's read
// attachment or any image), decomposes each texel into normalized RGBA,
// selects the channels the destination format stores, and requantizes them
// to the destination bit depth.
//
// # Quick Start
//
//	fb, _ := texcopy.NewDefaultFramebuffer(16, 16, texcopy.RGBA8)
//	fb.Clear(texcopy.Color{R: 0.25, G: 1, B: 0.75, A: 0.5})
//
//	// New luminance-alpha texture from the whole framebuffer.
//	tex, err := texcopy.FullCopy(fb, texcopy.Rect(0, 0, 16, 16), texcopy.LA8)
//
//	// Overwrite an 8x8 block at (2,4) from framebuffer origin (5,6).
//	err = texcopy.SubCopy(tex, texcopy.Offset{X: 2, Y: 4}, fb, texcopy.Rect(5, 6, 8, 8))
//
// # Channel Selection
//
// Source texels decompose as RGBA -> (r,g,b,a), RGB -> (r,g,b,1),
// L -> (l,l,l,1), LA -> (l,l,l,a), A -> (0,0,0,a). Destinations keep:
//
//	RGBA  R, G, B, A
//	RGB   R, G, B
//	L     L = R
//	LA    L = R, A
//	A     A
//
// # Quantization
//
// Channels are normalized to [0,1] at their source width and requantized
// with round(v * (2^bits - 1)). The rounding rule is an engine option; all
// rules are within one least significant bit of each other.
//
// # Concurrency
//
// Copies are synchronous. Large regions are converted in row bands on the
// engine's worker pool, and the call returns once every band is written.
// Images carry no locks: concurrent copies into the same image must be
// serialized by the caller.
package texcopy

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
