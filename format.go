package texcopy

import (
	"fmt"
	"strings"

	intImage "github.com/gogpu/texcopy/internal/image"
)

// Layout is the set of channels an image stores.
type Layout = intImage.Layout

// Layouts.
const (
	RGBA           = intImage.LayoutRGBA
	RGB            = intImage.LayoutRGB
	Luminance      = intImage.LayoutLuminance
	LuminanceAlpha = intImage.LayoutLuminanceAlpha
	Alpha          = intImage.LayoutAlpha
)

// Depth holds the bit width of each channel. Luminance uses R.
type Depth = intImage.Depth

// Common depths.
var (
	Depth8       = intImage.Depth8
	Depth16      = intImage.Depth16
	Depth565     = intImage.Depth565
	Depth4444    = intImage.Depth4444
	Depth5551    = intImage.Depth5551
	Depth1010102 = intImage.Depth1010102
)

// Format is a channel layout paired with per-channel bit widths.
type Format = intImage.Format

// Texel holds raw stored channel values in memory order.
type Texel = intImage.Texel

// Named formats.
var (
	RGBA8    = Format{Layout: RGBA, Depth: Depth8}
	RGB8     = Format{Layout: RGB, Depth: Depth8}
	L8       = Format{Layout: Luminance, Depth: Depth8}
	LA8      = Format{Layout: LuminanceAlpha, Depth: Depth8}
	A8       = Format{Layout: Alpha, Depth: Depth8}
	RGBA16   = Format{Layout: RGBA, Depth: Depth16}
	RGB16    = Format{Layout: RGB, Depth: Depth16}
	L16      = Format{Layout: Luminance, Depth: Depth16}
	LA16     = Format{Layout: LuminanceAlpha, Depth: Depth16}
	A16      = Format{Layout: Alpha, Depth: Depth16}
	RGB565   = Format{Layout: RGB, Depth: Depth565}
	RGBA4444 = Format{Layout: RGBA, Depth: Depth4444}
	RGBA5551 = Format{Layout: RGBA, Depth: Depth5551}
	RGB10A2  = Format{Layout: RGBA, Depth: Depth1010102}
)

type namedFormat struct {
	name    string
	format  Format
	aliases []string
}

var namedFormats = []namedFormat{
	{"RGBA8", RGBA8, []string{"rgba"}},
	{"RGB8", RGB8, []string{"rgb"}},
	{"L8", L8, []string{"l", "luminance"}},
	{"LA8", LA8, []string{"la", "luminance_alpha", "luminance-alpha"}},
	{"A8", A8, []string{"a", "alpha"}},
	{"RGBA16", RGBA16, nil},
	{"RGB16", RGB16, nil},
	{"L16", L16, nil},
	{"LA16", LA16, nil},
	{"A16", A16, nil},
	{"RGB565", RGB565, nil},
	{"RGBA4444", RGBA4444, nil},
	{"RGBA5551", RGBA5551, nil},
	{"RGB10A2", RGB10A2, []string{"rgba1010102"}},
}

// Formats returns the named formats in a stable order.
func Formats() []Format {
	out := make([]Format, len(namedFormats))
	for i, nf := range namedFormats {
		out[i] = nf.format
	}
	return out
}

// FormatName returns the canonical name of f, or f.String() for formats
// without a name.
func FormatName(f Format) string {
	for _, nf := range namedFormats {
		if nf.format == f {
			return nf.name
		}
	}
	return f.String()
}

// ParseFormat resolves a case-insensitive format name such as "rgba8",
// "la8", "luminance" or "alpha".
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, nf := range namedFormats {
		if strings.ToLower(nf.name) == key {
			return nf.format, nil
		}
		for _, a := range nf.aliases {
			if a == key {
				return nf.format, nil
			}
		}
	}
	return Format{}, fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, name)
}
