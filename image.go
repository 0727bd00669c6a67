package texcopy

import (
	stdcolor "image/color"

	intColor "github.com/gogpu/texcopy/internal/color"
	intImage "github.com/gogpu/texcopy/internal/image"
)

// Image is a 2D grid of texels with a fixed format and size.
//
// Copies write texels but never change the format or extent of an image.
// Image is not safe for concurrent writes.
type Image struct {
	buf *intImage.Buf
}

// NewImage creates a zeroed image. Zero extents are allowed; negative
// extents return ErrInvalidDimensions and unknown formats ErrInvalidFormat.
func NewImage(width, height int, format Format) (*Image, error) {
	buf, err := intImage.NewBuf(width, height, format)
	if err != nil {
		return nil, err
	}
	return &Image{buf: buf}, nil
}

// ImageFromBytes wraps tightly packed texel data without copying.
// Channels up to 8 bits take one byte, wider channels two little-endian bytes.
func ImageFromBytes(data []byte, width, height int, format Format) (*Image, error) {
	buf, err := intImage.FromRaw(data, width, height, format, format.RowBytes(width))
	if err != nil {
		return nil, err
	}
	return &Image{buf: buf}, nil
}

// Width returns the image width in texels.
func (img *Image) Width() int { return img.buf.Width() }

// Height returns the image height in texels.
func (img *Image) Height() int { return img.buf.Height() }

// Format returns the texel format.
func (img *Image) Format() Format { return img.buf.Format() }

// Bounds returns the whole image as a region at the origin.
func (img *Image) Bounds() Region {
	w, h := img.buf.Bounds()
	return Region{Width: w, Height: h}
}

// Bytes returns the stored texel data. Rows are tightly packed.
func (img *Image) Bytes() []byte { return img.buf.Data() }

// Texel returns the raw stored channel values at (x, y), or a zero Texel
// outside the image.
func (img *Image) Texel(x, y int) Texel {
	return img.buf.Texel(x, y)
}

// SetTexel stores raw channel values at (x, y). Values are clamped to the
// channel widths of the format.
func (img *Image) SetTexel(x, y int, t Texel) error {
	return img.buf.SetTexel(x, y, t)
}

// Color returns the normalized RGBA decomposition of the texel at (x, y).
func (img *Image) Color(x, y int) Color {
	return Decompose(img.buf.Texel(x, y), img.buf.Format())
}

// Sample returns what a shader sampling the texture at (x, y) reads back
// through an 8-bit RGBA target: L expands to (l,l,l,1), A to (0,0,0,a).
func (img *Image) Sample(x, y int) stdcolor.NRGBA {
	c := img.Color(x, y)
	return stdcolor.NRGBA{
		R: uint8(intColor.Quantize(c.R, 8, intColor.RoundNearest)),
		G: uint8(intColor.Quantize(c.G, 8, intColor.RoundNearest)),
		B: uint8(intColor.Quantize(c.B, 8, intColor.RoundNearest)),
		A: uint8(intColor.Quantize(c.A, 8, intColor.RoundNearest)),
	}
}

// Fill sets every texel to c, converted to the image format.
func (img *Image) Fill(c Color) {
	img.buf.Fill(Convert(c, img.buf.Format(), RoundNearest))
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	return &Image{buf: img.buf.Clone()}
}

// Equal reports whether img and o have the same format, size and texels.
func (img *Image) Equal(o *Image) bool {
	if img == nil || o == nil {
		return img == o
	}
	return img.buf.Equal(o.buf)
}

// ReadImage makes an Image usable as a copy source. A nil image is
// unavailable.
func (img *Image) ReadImage() (*Image, error) {
	if img == nil {
		return nil, ErrSourceUnavailable
	}
	return img, nil
}

func (img *Image) String() string {
	return "Image(" + FormatName(img.Format()) + " " + img.Bounds().String() + ")"
}
