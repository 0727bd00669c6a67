package image

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is negative.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when texel coordinates are outside buffer bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Texel holds the raw stored channel values of one texel in memory order.
// Only the first Layout.NumChannels() entries are meaningful.
type Texel [4]uint16

// Buf is a strided texel buffer.
//
// Buf stores every channel unpacked: channels of up to 8 bits take one
// byte, wider channels take two bytes in little-endian order. Rows may be
// padded by a stride larger than the packed row size.
//
// Thread safety: Buf is safe for concurrent read access. Writes to
// overlapping texels require external synchronization; writes to disjoint
// rows may run concurrently.
type Buf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format

	bpp     int
	nch     int
	offsets [4]int
	wide    [4]bool
	maxv    [4]uint16
}

// NewBuf creates a new buffer with the given dimensions and format.
// Zero dimensions are allowed and produce an empty buffer.
func NewBuf(width, height int, format Format) (*Buf, error) {
	return NewBufWithStride(width, height, format, format.RowBytes(width))
}

// NewBufWithStride creates a new buffer with custom stride for alignment.
// Stride must be at least format.RowBytes(width).
func NewBufWithStride(width, height int, format Format, stride int) (*Buf, error) {
	if err := validate(width, height, format, stride); err != nil {
		return nil, err
	}
	return newBuf(make([]byte, stride*height), width, height, format, stride), nil
}

// FromRaw creates a Buf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the Buf.
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buf, error) {
	if err := validate(width, height, format, stride); err != nil {
		return nil, err
	}
	required := stride * height
	if len(data) < required {
		return nil, ErrDataTooSmall
	}
	return newBuf(data[:required], width, height, format, stride), nil
}

func validate(width, height int, format Format, stride int) error {
	if width < 0 || height < 0 {
		return ErrInvalidDimensions
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return ErrInvalidStride
	}
	return nil
}

func newBuf(data []byte, width, height int, format Format, stride int) *Buf {
	b := &Buf{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}

	off := 0
	for i, c := range format.Layout.Channels() {
		bits := format.Depth.Bits(c)
		b.offsets[i] = off
		b.wide[i] = bits > 8
		b.maxv[i] = uint16(uint32(1)<<bits - 1)
		off += ChannelBytes(bits)
	}
	b.nch = format.Layout.NumChannels()
	b.bpp = off

	return b
}

// Clone creates a deep copy of the buffer.
func (b *Buf) Clone() *Buf {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	c := *b
	c.data = newData
	return &c
}

// Width returns the buffer width in texels.
func (b *Buf) Width() int {
	return b.width
}

// Height returns the buffer height in texels.
func (b *Buf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *Buf) Stride() int {
	return b.stride
}

// Format returns the texel format.
func (b *Buf) Format() Format {
	return b.format
}

// Bounds returns the buffer dimensions as (width, height).
func (b *Buf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw texel data slice.
func (b *Buf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the texel data for row y.
// Returns nil if y is out of bounds.
func (b *Buf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*b.bpp]
}

// PixelOffset returns the byte offset of texel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *Buf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.bpp
}

// Texel returns the stored channel values at (x, y).
// Returns a zero Texel if coordinates are out of bounds.
func (b *Buf) Texel(x, y int) Texel {
	var t Texel
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return t
	}
	b.load(offset, &t)
	return t
}

// SetTexel stores channel values at (x, y). Values wider than a channel's
// bit width are clamped to its maximum.
// Returns ErrOutOfBounds if coordinates are outside buffer bounds.
func (b *Buf) SetTexel(x, y int, t Texel) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	b.store(offset, t)
	return nil
}

// LoadRow decodes n texels of row y starting at column x into dst.
// The caller guarantees the span lies inside the buffer.
func (b *Buf) LoadRow(x, y, n int, dst []Texel) {
	offset := y*b.stride + x*b.bpp
	for i := range n {
		b.load(offset, &dst[i])
		offset += b.bpp
	}
}

// StoreRow encodes n texels from src into row y starting at column x.
// The caller guarantees the span lies inside the buffer.
func (b *Buf) StoreRow(x, y, n int, src []Texel) {
	offset := y*b.stride + x*b.bpp
	for i := range n {
		b.store(offset, src[i])
		offset += b.bpp
	}
}

func (b *Buf) load(offset int, t *Texel) {
	for i := range b.nch {
		p := offset + b.offsets[i]
		if b.wide[i] {
			t[i] = binary.LittleEndian.Uint16(b.data[p:])
		} else {
			t[i] = uint16(b.data[p])
		}
	}
}

func (b *Buf) store(offset int, t Texel) {
	for i := range b.nch {
		v := min(t[i], b.maxv[i])
		p := offset + b.offsets[i]
		if b.wide[i] {
			binary.LittleEndian.PutUint16(b.data[p:], v)
		} else {
			b.data[p] = byte(v)
		}
	}
}

// Fill sets all texels to t.
func (b *Buf) Fill(t Texel) {
	for y := range b.height {
		offset := y * b.stride
		for range b.width {
			b.store(offset, t)
			offset += b.bpp
		}
	}
}

// SubImage returns a view into a rectangular region of the buffer.
// The returned Buf shares the underlying data with the original.
// Returns nil if the bounds are invalid or outside the buffer.
func (b *Buf) SubImage(x, y, width, height int) *Buf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	offset := y*b.stride + x*b.bpp
	endOffset := (y+height-1)*b.stride + (x+width)*b.bpp

	sub := *b
	sub.data = b.data[offset:endOffset]
	sub.width = width
	sub.height = height
	return &sub
}

// Equal reports whether b and o have the same format, dimensions and
// texel contents. Row padding is ignored.
func (b *Buf) Equal(o *Buf) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil {
		return false
	}
	if b.format != o.format || b.width != o.width || b.height != o.height {
		return false
	}
	for y := range b.height {
		if !bytes.Equal(b.RowBytes(y), o.RowBytes(y)) {
			return false
		}
	}
	return true
}
