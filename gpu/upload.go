package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texcopy"
)

// BytesPerRowAlignment is the row pitch alignment WebGPU requires for
// buffer-to-texture copies.
const BytesPerRowAlignment = 256

// Upload is texel data laid out for a texture write.
type Upload struct {
	Mapping Mapping

	// Size is the texture extent.
	Size gputypes.Extent3D

	// BytesPerRow is the padded row pitch, a multiple of
	// BytesPerRowAlignment.
	BytesPerRow uint32

	// RowsPerImage equals Size.Height.
	RowsPerImage uint32

	// Data holds RowsPerImage rows of BytesPerRow bytes.
	Data []byte
}

// AlignBytesPerRow rounds n up to BytesPerRowAlignment.
func AlignBytesPerRow(n int) int {
	return (n + BytesPerRowAlignment - 1) / BytesPerRowAlignment * BytesPerRowAlignment
}

// NewUpload converts img to its texture storage format and pads rows to
// BytesPerRowAlignment. Widening conversions run on e, or on the default
// engine when e is nil, and are not subject to e's strict component rule.
func NewUpload(e *texcopy.Engine, img *texcopy.Image) (*Upload, error) {
	if img == nil {
		return nil, texcopy.ErrNilImage
	}
	m, err := TextureFormatFor(img.Format())
	if err != nil {
		return nil, err
	}
	if e == nil {
		e = texcopy.DefaultEngine()
	}

	stored := img
	if m.Widens(img.Format()) {
		stored, err = e.Reformat(img, m.Storage)
		if err != nil {
			return nil, fmt.Errorf("gpu: widen %v to %v: %w", img.Format(), m.Storage, err)
		}
	}

	w, h := stored.Width(), stored.Height()
	rowBytes := m.Storage.RowBytes(w)
	pitch := AlignBytesPerRow(rowBytes)

	data := make([]byte, pitch*h)
	src := stored.Bytes()
	for y := range h {
		copy(data[y*pitch:y*pitch+rowBytes], src[y*rowBytes:(y+1)*rowBytes])
	}

	return &Upload{
		Mapping:      m,
		Size:         gputypes.NewExtent2D(uint32(w), uint32(h)),
		BytesPerRow:  uint32(pitch),
		RowsPerImage: uint32(h),
		Data:         data,
	}, nil
}

// Row returns the unpadded texel bytes of row y.
func (u *Upload) Row(y int) []byte {
	start := y * int(u.BytesPerRow)
	return u.Data[start : start+u.Mapping.Storage.RowBytes(int(u.Size.Width))]
}
