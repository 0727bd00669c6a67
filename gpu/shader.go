package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/texcopy"
)

//go:embed shaders/convert.wgsl
var convertShaderSource string

// ConvertWorkgroupSize is the workgroup edge of the conversion kernel.
const ConvertWorkgroupSize = 8

// ConvertShaderSource returns the WGSL source of the channel selection
// kernel.
func ConvertShaderSource() string {
	return convertShaderSource
}

// ConvertShaderSPIRV compiles the channel selection kernel to SPIR-V.
func ConvertShaderSPIRV() ([]byte, error) {
	spirv, err := naga.Compile(convertShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile convert shader: %w", err)
	}
	return spirv, nil
}

// ShaderLayoutCode returns the layout selector the kernel expects in its
// params.
func ShaderLayoutCode(l texcopy.Layout) (uint32, error) {
	switch l {
	case texcopy.RGBA:
		return 0, nil
	case texcopy.RGB:
		return 1, nil
	case texcopy.Luminance:
		return 2, nil
	case texcopy.LuminanceAlpha:
		return 3, nil
	case texcopy.Alpha:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: layout %v", ErrUnsupportedFormat, l)
}

// ConvertParams is the uniform block of the conversion kernel.
type ConvertParams struct {
	Width  uint32
	Height uint32
	Layout uint32
}

// ConvertParamsSize is the size of the serialized uniform block.
const ConvertParamsSize = 16

// Bytes serializes p in the kernel's uniform layout.
func (p ConvertParams) Bytes() []byte {
	buf := make([]byte, ConvertParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], p.Width)
	binary.LittleEndian.PutUint32(buf[4:], p.Height)
	binary.LittleEndian.PutUint32(buf[8:], p.Layout)
	return buf
}

// Workgroups returns the dispatch size covering the params extent.
func (p ConvertParams) Workgroups() (x, y, z uint32) {
	return (p.Width + ConvertWorkgroupSize - 1) / ConvertWorkgroupSize,
		(p.Height + ConvertWorkgroupSize - 1) / ConvertWorkgroupSize, 1
}

// PackRGBA8 packs an RGBA8 image into the kernel's input words.
func PackRGBA8(img *texcopy.Image) ([]uint32, error) {
	if img.Format() != texcopy.RGBA8 {
		return nil, fmt.Errorf("%w: kernel input must be RGBA8, got %v", ErrUnsupportedFormat, img.Format())
	}
	data := img.Bytes()
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// ConvertPacked runs the kernel's per-texel logic on the CPU. Backends
// without compute support use it, and it defines the expected device
// output.
func ConvertPacked(p ConvertParams, src []uint32) []uint32 {
	n := int(p.Width * p.Height)
	dst := make([]uint32, n)
	for i := range min(n, len(src)) {
		px := src[i]
		r := px & 0xff
		a := (px >> 24) & 0xff
		switch p.Layout {
		case 0:
			dst[i] = px
		case 1:
			dst[i] = px & 0xffffff
		case 2:
			dst[i] = r
		case 3:
			dst[i] = r | a<<8
		default:
			dst[i] = a
		}
	}
	return dst
}
