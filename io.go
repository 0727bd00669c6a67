package texcopy

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts a standard image into an Image of the given format.
// Pixels are read as non-premultiplied RGBA and go through channel
// selection for format. Non-premultiplied sources are read directly; other
// images are normalized to 16-bit NRGBA first.
func FromImage(img image.Image, format Format) (*Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	out, err := NewImage(width, height, format)
	if err != nil {
		return nil, err
	}

	var at func(x, y int) Color
	switch src := img.(type) {
	case *image.NRGBA:
		const scale = 1.0 / 0xff
		at = func(x, y int) Color {
			c := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			return Color{R: float32(c.R) * scale, G: float32(c.G) * scale, B: float32(c.B) * scale, A: float32(c.A) * scale}
		}
	default:
		nrgba, ok := img.(*image.NRGBA64)
		if !ok {
			nrgba = image.NewNRGBA64(image.Rect(0, 0, width, height))
			draw.Copy(nrgba, image.Point{}, img, bounds, draw.Src, nil)
			bounds = nrgba.Bounds()
		}
		const scale = 1.0 / 0xffff
		at = func(x, y int) Color {
			c := nrgba.NRGBA64At(bounds.Min.X+x, bounds.Min.Y+y)
			return Color{R: float32(c.R) * scale, G: float32(c.G) * scale, B: float32(c.B) * scale, A: float32(c.A) * scale}
		}
	}

	row := make([]Texel, width)
	for y := range height {
		for x := range width {
			row[x] = Convert(at(x, y), format, RoundNearest)
		}
		out.buf.StoreRow(0, y, width, row)
	}
	return out, nil
}

// ToImage returns the sampled view of img as a standard image: L expands to
// gray, A to transparent black. Formats wider than 8 bits per channel
// produce *image.NRGBA64, others *image.NRGBA.
func ToImage(img *Image) image.Image {
	w, h := img.Width(), img.Height()
	rect := image.Rect(0, 0, w, h)

	wide := false
	f := img.Format()
	for _, c := range f.Layout.Channels() {
		if f.Depth.Bits(c) > 8 {
			wide = true
		}
	}

	if !wide {
		out := image.NewNRGBA(rect)
		for y := range h {
			for x := range w {
				out.SetNRGBA(x, y, img.Sample(x, y))
			}
		}
		return out
	}

	out := image.NewNRGBA64(rect)
	for y := range h {
		for x := range w {
			c := Convert(img.Color(x, y), RGBA16, RoundNearest)
			i := out.PixOffset(x, y)
			for ch := range 4 {
				out.Pix[i+2*ch] = uint8(c[ch] >> 8)
				out.Pix[i+2*ch+1] = uint8(c[ch])
			}
		}
	}
	return out
}
