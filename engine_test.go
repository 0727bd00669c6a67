package texcopy

import (
	"errors"
	stdcolor "image/color"
	"testing"
)

var (
	clearColor1 = Color{R: 0.25, G: 1, B: 0.75, A: 0.5}
	clearColor2 = Color{R: 0.5, G: 0.25, B: 1, A: 0.75}
)

func mustImage(t testing.TB, w, h int, f Format) *Image {
	t.Helper()
	img, err := NewImage(w, h, f)
	if err != nil {
		t.Fatalf("NewImage(%d, %d, %v) = %v", w, h, f, err)
	}
	return img
}

func mustFramebuffer(t testing.TB, w, h int, f Format, c Color) *Framebuffer {
	t.Helper()
	fb, err := NewDefaultFramebuffer(w, h, f)
	if err != nil {
		t.Fatalf("NewDefaultFramebuffer() = %v", err)
	}
	fb.Clear(c)
	return fb
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func expectSample(t *testing.T, img *Image, x, y int, want stdcolor.NRGBA) {
	t.Helper()
	got := img.Sample(x, y)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) || !near(got.A, want.A) {
		t.Errorf("Sample(%d, %d) = %v, want %v (+-1)", x, y, got, want)
	}
}

// patterned returns an image whose texels encode their coordinates.
func patterned(t testing.TB, w, h int, f Format) *Image {
	t.Helper()
	img := mustImage(t, w, h, f)
	for y := range h {
		for x := range w {
			c := Color{
				R: float32(x%256) / 255,
				G: float32(y%256) / 255,
				B: float32((x+y)%256) / 255,
				A: float32((x*7+y*3)%256) / 255,
			}
			if err := img.SetTexel(x, y, Convert(c, f, RoundNearest)); err != nil {
				t.Fatal(err)
			}
		}
	}
	return img
}

func newSerialEngine(t testing.TB, opts ...EngineOption) *Engine {
	t.Helper()
	e := NewEngine(append([]EngineOption{WithWorkers(1)}, opts...)...)
	t.Cleanup(e.Close)
	return e
}

func TestFullCopyChannelSelection(t *testing.T) {
	tests := []struct {
		name   string
		srcFmt Format
		dstFmt Format
		want   stdcolor.NRGBA
	}{
		{"RGBA to L", RGBA8, L8, stdcolor.NRGBA{64, 64, 64, 255}},
		{"RGBA to LA", RGBA8, LA8, stdcolor.NRGBA{64, 64, 64, 127}},
		{"RGBA to A", RGBA8, A8, stdcolor.NRGBA{0, 0, 0, 127}},
		{"RGBA to RGB", RGBA8, RGB8, stdcolor.NRGBA{64, 255, 191, 255}},
		{"RGBA to RGBA", RGBA8, RGBA8, stdcolor.NRGBA{64, 255, 191, 127}},
		{"RGB to L", RGB8, L8, stdcolor.NRGBA{64, 64, 64, 255}},
		{"RGB to LA", RGB8, LA8, stdcolor.NRGBA{64, 64, 64, 255}},
		{"RGB to RGBA", RGB8, RGBA8, stdcolor.NRGBA{64, 255, 191, 255}},
		{"RGBA16 to LA", RGBA16, LA8, stdcolor.NRGBA{64, 64, 64, 127}},
		{"RGBA to LA16", RGBA8, LA16, stdcolor.NRGBA{64, 64, 64, 127}},
	}

	e := newSerialEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := mustFramebuffer(t, 16, 16, tt.srcFmt, clearColor1)
			tex, err := e.FullCopy(fb, Rect(0, 0, 16, 16), tt.dstFmt)
			if err != nil {
				t.Fatalf("FullCopy() = %v", err)
			}
			if tex.Format() != tt.dstFmt {
				t.Errorf("Format() = %v, want %v", tex.Format(), tt.dstFmt)
			}
			if tex.Width() != 16 || tex.Height() != 16 {
				t.Errorf("size = %dx%d, want 16x16", tex.Width(), tex.Height())
			}
			for _, p := range [][2]int{{0, 0}, {15, 15}, {7, 9}} {
				expectSample(t, tex, p[0], p[1], tt.want)
			}
		})
	}
}

func TestFullCopyQuantizesToDestinationDepth(t *testing.T) {
	e := newSerialEngine(t)
	fb := mustFramebuffer(t, 4, 4, RGBA8, clearColor1)

	tex, err := e.FullCopy(fb, Rect(0, 0, 4, 4), RGB565)
	if err != nil {
		t.Fatalf("FullCopy() = %v", err)
	}
	if got, want := tex.Texel(1, 1), (Texel{8, 63, 23}); got != want {
		t.Errorf("RGB565 texel = %v, want %v", got, want)
	}

	tex, err = e.FullCopy(fb, Rect(0, 0, 4, 4), L16)
	if err != nil {
		t.Fatalf("FullCopy() = %v", err)
	}
	if got := tex.Texel(3, 3)[0]; got < 16447 || got > 16449 {
		t.Errorf("L16 texel = %d, want 16448 +-1", got)
	}
}

func TestFullCopySubRegion(t *testing.T) {
	e := newSerialEngine(t)
	src := patterned(t, 32, 32, RGBA8)

	region := Rect(5, 6, 8, 10)
	tex, err := e.FullCopy(src, region, RGBA8)
	if err != nil {
		t.Fatalf("FullCopy() = %v", err)
	}
	if tex.Width() != 8 || tex.Height() != 10 {
		t.Fatalf("size = %dx%d, want 8x10", tex.Width(), tex.Height())
	}
	for y := range 10 {
		for x := range 8 {
			if got, want := tex.Texel(x, y), src.Texel(region.X+x, region.Y+y); got != want {
				t.Fatalf("texel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSubCopyIsolation(t *testing.T) {
	e := newSerialEngine(t)
	fb := mustFramebuffer(t, 16, 16, RGBA8, clearColor1)

	for _, f := range []Format{L8, LA8, A8, RGB8, RGBA8} {
		t.Run(f.String(), func(t *testing.T) {
			fb.Clear(clearColor1)
			tex, err := e.FullCopy(fb, Rect(0, 0, 16, 16), f)
			if err != nil {
				t.Fatalf("FullCopy() = %v", err)
			}
			before := tex.Clone()

			fb.Clear(clearColor2)
			if err := e.SubCopy(tex, Offset{X: 2, Y: 4}, fb, Rect(5, 6, 8, 8)); err != nil {
				t.Fatalf("SubCopy() = %v", err)
			}

			want := mustImage(t, 1, 1, f)
			want.Fill(clearColor2)
			for y := range 16 {
				for x := range 16 {
					inside := x >= 2 && x < 10 && y >= 4 && y < 12
					got := tex.Texel(x, y)
					switch {
					case inside && got != want.Texel(0, 0):
						t.Fatalf("texel (%d,%d) = %v, want %v", x, y, got, want.Texel(0, 0))
					case !inside && got != before.Texel(x, y):
						t.Fatalf("texel (%d,%d) outside write rect changed: %v -> %v", x, y, before.Texel(x, y), got)
					}
				}
			}
		})
	}
}

func TestSubCopyLuminanceExample(t *testing.T) {
	e := newSerialEngine(t)
	fb := mustFramebuffer(t, 16, 16, RGBA8, clearColor1)

	l, err := e.CopyTexImage(fb, L8, 0, 0, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	la, err := e.CopyTexImage(fb, LA8, 0, 0, 16, 16)
	if err != nil {
		t.Fatal(err)
	}

	fb.Clear(clearColor2)
	if err := e.CopyTexSubImage(l, fb, 2, 4, 5, 6, 8, 8); err != nil {
		t.Fatal(err)
	}
	if err := e.CopyTexSubImage(la, fb, 2, 4, 5, 6, 8, 8); err != nil {
		t.Fatal(err)
	}

	expectSample(t, l, 0, 0, stdcolor.NRGBA{64, 64, 64, 255})
	expectSample(t, l, 7, 7, stdcolor.NRGBA{127, 127, 127, 255})
	expectSample(t, la, 0, 0, stdcolor.NRGBA{64, 64, 64, 127})
	expectSample(t, la, 7, 7, stdcolor.NRGBA{127, 127, 127, 192})
	expectSample(t, la, 12, 14, stdcolor.NRGBA{64, 64, 64, 127})
}

func TestSubCopyRejectsOutOfBounds(t *testing.T) {
	tests := []struct {
		name   string
		offset Offset
		region Region
	}{
		{"dst overflow x", Offset{X: 10, Y: 0}, Rect(0, 0, 8, 8)},
		{"dst overflow y", Offset{X: 0, Y: 9}, Rect(0, 0, 8, 8)},
		{"negative offset", Offset{X: -1, Y: 0}, Rect(0, 0, 4, 4)},
		{"negative width", Offset{}, Rect(0, 0, -1, 4)},
		{"negative height", Offset{}, Rect(0, 0, 4, -2)},
		{"src overflow", Offset{}, Rect(12, 12, 8, 8)},
		{"negative source origin", Offset{}, Rect(-1, 0, 4, 4)},
	}

	e := newSerialEngine(t)
	fb := mustFramebuffer(t, 16, 16, RGBA8, clearColor2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := patterned(t, 16, 16, LA8)
			before := dst.Clone()

			err := e.SubCopy(dst, tt.offset, fb, tt.region)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Fatalf("SubCopy() = %v, want ErrInvalidRegion", err)
			}
			var ce *CopyError
			if !errors.As(err, &ce) || ce.Op != "SubCopy" {
				t.Errorf("error %v is not a SubCopy *CopyError", err)
			}
			if !dst.Equal(before) {
				t.Error("destination modified by rejected copy")
			}
		})
	}
}

func TestFullCopyRejectsOutOfBounds(t *testing.T) {
	e := newSerialEngine(t)
	fb := mustFramebuffer(t, 8, 8, RGBA8, clearColor1)

	for _, r := range []Region{Rect(0, 0, 9, 8), Rect(4, 4, 5, 1), Rect(0, -1, 2, 2), Rect(0, 0, 2, -2)} {
		tex, err := e.FullCopy(fb, r, L8)
		if !errors.Is(err, ErrInvalidRegion) {
			t.Errorf("FullCopy(%v) = %v, want ErrInvalidRegion", r, err)
		}
		if tex != nil {
			t.Errorf("FullCopy(%v) returned an image on error", r)
		}
	}
}

func TestCopyFromUnreadableSource(t *testing.T) {
	e := newSerialEngine(t)

	fb := mustFramebuffer(t, 8, 8, RGBA8, clearColor1)
	if err := fb.SetReadBuffer(ReadBufferNone); err != nil {
		t.Fatal(err)
	}
	empty := NewFramebuffer()

	for name, src := range map[string]Source{"read buffer none": fb, "no attachment": empty, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			if _, err := e.FullCopy(src, Rect(0, 0, 4, 4), L8); !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("FullCopy() = %v, want ErrSourceUnavailable", err)
			}

			dst := patterned(t, 8, 8, RGBA8)
			before := dst.Clone()
			if err := e.SubCopy(dst, Offset{}, src, Rect(0, 0, 4, 4)); !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("SubCopy() = %v, want ErrSourceUnavailable", err)
			}
			if !dst.Equal(before) {
				t.Error("destination modified by rejected copy")
			}
		})
	}
}

type failingSource struct{ err error }

func (s failingSource) ReadImage() (*Image, error) { return nil, s.err }

func TestCustomSourceErrorIsUnavailable(t *testing.T) {
	e := newSerialEngine(t)
	boom := errors.New("device lost")

	_, err := e.FullCopy(failingSource{boom}, Rect(0, 0, 1, 1), RGBA8)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want to wrap the source error", err)
	}
}

func TestUnsupportedFormatPair(t *testing.T) {
	tests := []struct {
		name   string
		src    Format
		dst    Format
		strict bool
	}{
		{"RGB to A", RGB8, A8, false},
		{"A to L", A8, L8, false},
		{"A to RGB", A8, RGB8, false},
		{"invalid destination", RGBA8, Format{Layout: RGBA}, false},
		{"strict RGB to LA", RGB8, LA8, true},
		{"strict RGB to RGBA", RGB8, RGBA8, true},
		{"strict L to RGB", L8, RGB8, true},
		{"strict A to LA", A8, LA8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newSerialEngine(t, WithStrictComponents(tt.strict))
			src := mustImage(t, 4, 4, tt.src)

			if _, err := e.FullCopy(src, Rect(0, 0, 4, 4), tt.dst); !errors.Is(err, ErrUnsupportedFormatPair) {
				t.Errorf("FullCopy() = %v, want ErrUnsupportedFormatPair", err)
			}
			if !tt.dst.IsValid() {
				return
			}
			dst := mustImage(t, 4, 4, tt.dst)
			if err := e.SubCopy(dst, Offset{}, src, Rect(0, 0, 4, 4)); !errors.Is(err, ErrUnsupportedFormatPair) {
				t.Errorf("SubCopy() = %v, want ErrUnsupportedFormatPair", err)
			}
		})
	}
}

func TestStrictAllowsGLESPairs(t *testing.T) {
	e := newSerialEngine(t, WithStrictComponents(true))
	pairs := [][2]Format{
		{RGBA8, RGBA8}, {RGBA8, RGB8}, {RGBA8, LA8}, {RGBA8, L8}, {RGBA8, A8},
		{RGB8, RGB8}, {RGB8, L8}, {LA8, LA8}, {LA8, L8}, {LA8, A8}, {L8, L8}, {A8, A8},
	}
	for _, p := range pairs {
		if _, err := e.FullCopy(mustImage(t, 2, 2, p[0]), Rect(0, 0, 2, 2), p[1]); err != nil {
			t.Errorf("strict %v -> %v = %v, want nil", p[0], p[1], err)
		}
	}
}

func TestReformatIgnoresStrictRule(t *testing.T) {
	e := newSerialEngine(t, WithStrictComponents(true))
	src := mustFramebuffer(t, 3, 2, RGB8, clearColor1)
	img, _ := src.ReadImage()

	if _, err := e.FullCopy(img, img.Bounds(), RGBA8); !errors.Is(err, ErrUnsupportedFormatPair) {
		t.Fatalf("strict FullCopy(RGB8 -> RGBA8) = %v, want ErrUnsupportedFormatPair", err)
	}
	got, err := e.Reformat(img, RGBA8)
	if err != nil {
		t.Fatal(err)
	}
	expectSample(t, got, 2, 1, stdcolor.NRGBA{64, 255, 191, 255})

	if _, err := e.Reformat(nil, RGBA8); !errors.Is(err, ErrNilImage) {
		t.Errorf("Reformat(nil) = %v, want ErrNilImage", err)
	}
	if _, err := e.Reformat(img, Format{}); !errors.Is(err, ErrUnsupportedFormatPair) {
		t.Errorf("Reformat(invalid) = %v, want ErrUnsupportedFormatPair", err)
	}
}

func TestSubCopyNilDestination(t *testing.T) {
	e := newSerialEngine(t)
	err := e.SubCopy(nil, Offset{}, mustImage(t, 2, 2, RGBA8), Rect(0, 0, 1, 1))
	if !errors.Is(err, ErrNilImage) {
		t.Errorf("SubCopy(nil) = %v, want ErrNilImage", err)
	}
}

func TestZeroAreaCopies(t *testing.T) {
	e := newSerialEngine(t)
	src := patterned(t, 8, 8, RGBA8)

	tex, err := e.FullCopy(src, Rect(3, 3, 0, 0), LA8)
	if err != nil {
		t.Fatalf("FullCopy(empty) = %v", err)
	}
	if tex.Width() != 0 || tex.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", tex.Width(), tex.Height())
	}

	dst := patterned(t, 8, 8, RGBA8)
	before := dst.Clone()
	if err := e.SubCopy(dst, Offset{X: 8, Y: 8}, src, Rect(8, 8, 0, 0)); err != nil {
		t.Fatalf("SubCopy(empty) = %v", err)
	}
	if !dst.Equal(before) {
		t.Error("empty SubCopy modified destination")
	}
}

func TestSubCopyIdempotent(t *testing.T) {
	e := newSerialEngine(t)
	src := patterned(t, 20, 20, RGBA8)
	dst := mustImage(t, 12, 12, LA8)

	if err := e.SubCopy(dst, Offset{X: 1, Y: 2}, src, Rect(3, 4, 9, 7)); err != nil {
		t.Fatal(err)
	}
	once := dst.Clone()
	if err := e.SubCopy(dst, Offset{X: 1, Y: 2}, src, Rect(3, 4, 9, 7)); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(once) {
		t.Error("repeating a sub copy changed the destination")
	}
}

func TestFullCopyIdempotent(t *testing.T) {
	src := patterned(t, 33, 29, RGBA16)
	serial := newSerialEngine(t)
	par := NewEngine(WithWorkers(4), WithParallelThreshold(1))
	t.Cleanup(par.Close)

	for _, f := range []Format{RGBA8, RGB565, LA8, A16, RGB10A2} {
		t.Run(f.String(), func(t *testing.T) {
			first, err := serial.FullCopy(src, Rect(2, 3, 30, 25), f)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range []*Engine{serial, par} {
				again, err := e.FullCopy(src, Rect(2, 3, 30, 25), f)
				if err != nil {
					t.Fatal(err)
				}
				if !again.Equal(first) {
					t.Errorf("repeated full copy (workers=%d) differs", e.Workers())
				}
			}
		})
	}
}

func TestSameLayoutMatchesChannelPath(t *testing.T) {
	tests := []struct {
		src, dst Format
	}{
		{RGBA16, RGBA8},
		{RGBA8, RGBA4444},
		{RGBA5551, RGB10A2},
		{RGB565, RGB8},
		{RGB16, RGB565},
		{LA16, LA8},
		{L8, L16},
		{A16, A8},
	}

	e := newSerialEngine(t)
	for _, tt := range tests {
		t.Run(tt.src.String()+"->"+tt.dst.String(), func(t *testing.T) {
			src := patterned(t, 23, 17, tt.src)
			got, err := e.FullCopy(src, src.Bounds(), tt.dst)
			if err != nil {
				t.Fatal(err)
			}
			for y := range 17 {
				for x := range 23 {
					want := Convert(Decompose(src.Texel(x, y), tt.src), tt.dst, RoundNearest)
					if g := got.Texel(x, y); g != want {
						t.Fatalf("texel (%d,%d) = %v, want %v", x, y, g, want)
					}
				}
			}
		})
	}
}

func TestSameFormatCopyIsExact(t *testing.T) {
	for _, r := range []Rounding{RoundNearest, RoundHalfEven, RoundTowardZero} {
		e := newSerialEngine(t, WithRounding(r))
		for _, f := range []Format{RGBA16, RGB565, RGB10A2, LA16} {
			src := patterned(t, 19, 11, f)
			got, err := e.FullCopy(src, src.Bounds(), f)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(src) {
				t.Errorf("%v: %v -> %v copy is not exact", r, f, f)
			}
		}
	}
}

func TestSubCopyFeedback(t *testing.T) {
	e := newSerialEngine(t)
	img := patterned(t, 16, 16, RGBA8)
	orig := img.Clone()

	// Shift right by one texel within the same image.
	if err := e.SubCopy(img, Offset{X: 1, Y: 0}, img, Rect(0, 0, 15, 16)); err != nil {
		t.Fatal(err)
	}
	for y := range 16 {
		if got, want := img.Texel(0, y), orig.Texel(0, y); got != want {
			t.Fatalf("column 0 row %d changed: %v -> %v", y, want, got)
		}
		for x := 1; x < 16; x++ {
			if got, want := img.Texel(x, y), orig.Texel(x-1, y); got != want {
				t.Fatalf("texel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	src := patterned(t, 97, 131, RGBA16)

	serial := newSerialEngine(t)
	par := NewEngine(WithWorkers(4), WithParallelThreshold(1))
	t.Cleanup(par.Close)

	for _, f := range []Format{RGBA8, LA8, L16, A8, RGB565, RGB10A2} {
		t.Run(f.String(), func(t *testing.T) {
			want, err := serial.FullCopy(src, Rect(1, 2, 90, 120), f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := par.FullCopy(src, Rect(1, 2, 90, 120), f)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Error("parallel conversion differs from serial conversion")
			}
		})
	}
}

func TestClosedEngineStillCopies(t *testing.T) {
	e := NewEngine(WithWorkers(3), WithParallelThreshold(1))
	e.Close()
	e.Close()

	src := patterned(t, 40, 40, RGBA8)
	got, err := e.FullCopy(src, src.Bounds(), RGBA8)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(src) {
		t.Error("RGBA8 -> RGBA8 copy is not exact")
	}
}

func TestRoundingModes(t *testing.T) {
	src := mustImage(t, 1, 1, RGBA16)
	// 128.5/255 at 16 bits, just under the half step.
	v := uint16(33024)
	_ = src.SetTexel(0, 0, Texel{v, v, v, v})

	for _, r := range []Rounding{RoundNearest, RoundHalfEven, RoundTowardZero} {
		e := newSerialEngine(t, WithRounding(r))
		tex, err := e.FullCopy(src, src.Bounds(), L8)
		if err != nil {
			t.Fatal(err)
		}
		if got := tex.Texel(0, 0)[0]; got < 128 || got > 129 {
			t.Errorf("%v: L = %d, want 128 or 129", r, got)
		}
	}
}

func TestPackageLevelCopies(t *testing.T) {
	fb := mustFramebuffer(t, 8, 8, RGBA8, clearColor1)
	tex, err := FullCopy(fb, Rect(0, 0, 8, 8), LA8)
	if err != nil {
		t.Fatal(err)
	}
	fb.Clear(clearColor2)
	if err := SubCopy(tex, Offset{X: 4, Y: 4}, fb, Rect(0, 0, 4, 4)); err != nil {
		t.Fatal(err)
	}
	expectSample(t, tex, 0, 0, stdcolor.NRGBA{64, 64, 64, 127})
	expectSample(t, tex, 5, 5, stdcolor.NRGBA{127, 127, 127, 192})
	if DefaultEngine() != DefaultEngine() {
		t.Error("DefaultEngine() is not shared")
	}
}
