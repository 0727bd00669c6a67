package texcopy

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	intColor "github.com/gogpu/texcopy/internal/color"
	intImage "github.com/gogpu/texcopy/internal/image"
	"github.com/gogpu/texcopy/internal/parallel"
)

// Engine performs texture copies.
//
// An Engine is safe for concurrent use as long as concurrent calls do not
// write the same destination image.
type Engine struct {
	opts    engineOptions
	pool    *parallel.WorkerPool
	staging *intImage.Pool
}

// NewEngine creates an engine. Unless WithWorkers(1) is given, it starts a
// worker pool that Close stops.
func NewEngine(opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	o.workers = workers

	e := &Engine{
		opts:    o,
		staging: intImage.NewPool(4),
	}
	if workers > 1 {
		e.pool = parallel.NewWorkerPool(workers)
		e.logger().Info("texcopy: engine started", "workers", workers)
	}
	return e
}

// Close stops the worker pool. A closed engine still works, converting on
// the calling goroutine. Close is idempotent.
func (e *Engine) Close() {
	if e.pool != nil && e.pool.IsRunning() {
		e.pool.Close()
		e.logger().Info("texcopy: engine stopped")
	}
}

// Rounding returns the quantization rounding mode.
func (e *Engine) Rounding() Rounding { return e.opts.rounding }

// Strict reports whether the engine applies the GLES component rule.
func (e *Engine) Strict() bool { return e.opts.strict }

// Workers returns the number of conversion workers.
func (e *Engine) Workers() int { return e.opts.workers }

func (e *Engine) logger() *slog.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}
	return Logger()
}

const (
	opFullCopy = "FullCopy"
	opSubCopy  = "SubCopy"
	opReformat = "Reformat"
)

// FullCopy creates a region.Width x region.Height image of format from the
// source texels inside region.
//
// Errors wrap ErrUnsupportedFormatPair for an invalid format or a source
// format the destination cannot represent, ErrSourceUnavailable when the
// source has no readable image, and ErrInvalidRegion when region has a
// negative extent or is not inside the source image.
func (e *Engine) FullCopy(src Source, region Region, format Format) (*Image, error) {
	if !format.IsValid() {
		return nil, e.reject(copyError(opFullCopy, ErrUnsupportedFormatPair, "invalid destination format %v", format))
	}
	if region.Width < 0 || region.Height < 0 {
		return nil, e.reject(copyError(opFullCopy, ErrInvalidRegion, "negative size %dx%d", region.Width, region.Height))
	}
	srcImg, err := readSource(opFullCopy, src)
	if err != nil {
		return nil, e.reject(err)
	}
	if !region.Within(srcImg.Width(), srcImg.Height()) {
		return nil, e.reject(copyError(opFullCopy, ErrInvalidRegion, "source region %v outside %dx%d", region, srcImg.Width(), srcImg.Height()))
	}
	if err := checkPair(srcImg.Format(), format, e.opts.strict); err != nil {
		return nil, e.reject(&CopyError{Op: opFullCopy, Err: err})
	}

	dst, err := NewImage(region.Width, region.Height, format)
	if err != nil {
		return nil, &CopyError{Op: opFullCopy, Err: err}
	}
	e.logger().Debug("texcopy: full copy",
		"src", srcImg.Format(), "dst", format, "region", region)
	e.convert(srcImg, region, dst, Offset{})
	return dst, nil
}

// SubCopy overwrites the rectangle of dst at offset, sized like region, with
// converted source texels. Texels of dst outside that rectangle are not
// touched, and on error dst is unchanged.
//
// The source region is read completely before dst is written, so src may
// be dst itself.
func (e *Engine) SubCopy(dst *Image, offset Offset, src Source, region Region) error {
	if dst == nil {
		return e.reject(&CopyError{Op: opSubCopy, Err: ErrNilImage})
	}
	if region.Width < 0 || region.Height < 0 {
		return e.reject(copyError(opSubCopy, ErrInvalidRegion, "negative size %dx%d", region.Width, region.Height))
	}
	if write := region.At(offset); !write.Within(dst.Width(), dst.Height()) {
		return e.reject(copyError(opSubCopy, ErrInvalidRegion, "destination region %v outside %dx%d", write, dst.Width(), dst.Height()))
	}
	srcImg, err := readSource(opSubCopy, src)
	if err != nil {
		return e.reject(err)
	}
	if !region.Within(srcImg.Width(), srcImg.Height()) {
		return e.reject(copyError(opSubCopy, ErrInvalidRegion, "source region %v outside %dx%d", region, srcImg.Width(), srcImg.Height()))
	}
	if err := checkPair(srcImg.Format(), dst.Format(), e.opts.strict); err != nil {
		return e.reject(&CopyError{Op: opSubCopy, Err: err})
	}

	e.logger().Debug("texcopy: sub copy",
		"src", srcImg.Format(), "dst", dst.Format(), "region", region, "offset", offset)
	e.convert(srcImg, region, dst, offset)
	return nil
}

// CopyTexImage is FullCopy with the argument order of a copy-tex-image
// request.
func (e *Engine) CopyTexImage(src Source, format Format, x, y, width, height int) (*Image, error) {
	return e.FullCopy(src, Rect(x, y, width, height), format)
}

// CopyTexSubImage is SubCopy with the argument order of a
// copy-tex-subimage request.
func (e *Engine) CopyTexSubImage(dst *Image, src Source, xoffset, yoffset, x, y, width, height int) error {
	return e.SubCopy(dst, Offset{X: xoffset, Y: yoffset}, src, Rect(x, y, width, height))
}

// Reformat returns all of src converted to format. It differs from FullCopy
// only in the format check: any two valid formats are accepted, strict or
// not, so storage conversions such as RGB to RGBA always succeed.
func (e *Engine) Reformat(src *Image, format Format) (*Image, error) {
	if src == nil {
		return nil, &CopyError{Op: opReformat, Err: ErrNilImage}
	}
	if err := checkValid(src.Format(), format); err != nil {
		return nil, &CopyError{Op: opReformat, Err: err}
	}
	dst, err := NewImage(src.Width(), src.Height(), format)
	if err != nil {
		return nil, &CopyError{Op: opReformat, Err: err}
	}
	e.convert(src, src.Bounds(), dst, Offset{})
	return dst, nil
}

func readSource(op string, src Source) (*Image, error) {
	if src == nil {
		return nil, copyError(op, ErrSourceUnavailable, "nil source")
	}
	img, err := src.ReadImage()
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return nil, &CopyError{Op: op, Err: err}
	}
	if img == nil {
		return nil, copyError(op, ErrSourceUnavailable, "no image")
	}
	return img, nil
}

func (e *Engine) reject(err error) error {
	e.logger().Debug("texcopy: copy rejected", "error", err)
	return err
}

// convert stages region of src, then writes the converted texels to dst at
// off. Both passes run in row bands over a view bounded to region.
func (e *Engine) convert(src *Image, region Region, dst *Image, off Offset) {
	w, h := region.Width, region.Height
	if w == 0 || h == 0 {
		return
	}

	var pool *parallel.WorkerPool
	if e.pool != nil && region.Area() >= e.opts.parallelThreshold {
		pool = e.pool
	}

	view := src.buf.SubImage(region.X, region.Y, w, h)
	if src.Format().Layout == dst.Format().Layout {
		e.requantize(pool, view, src.Format(), dst, off)
	} else {
		e.decompose(pool, view, src.Format(), dst, off)
	}

	if pool != nil {
		e.logger().Debug("texcopy: parallel conversion",
			"texels", region.Area(), "workers", pool.Workers())
	}
}

// decompose stages the view as normalized colors and encodes them for dst.
func (e *Engine) decompose(pool *parallel.WorkerPool, view *intImage.Buf, srcFmt Format, dst *Image, off Offset) {
	w, h := view.Width(), view.Height()
	staging := e.staging.Get(w * h)
	defer e.staging.Put(staging)

	parallel.ForEachBand(pool, h, func(b parallel.Band) {
		row := make([]Texel, w)
		for y := b.Y0; y < b.Y1; y++ {
			view.LoadRow(0, y, w, row)
			out := staging[y*w : (y+1)*w]
			for x, t := range row {
				out[x] = Decompose(t, srcFmt)
			}
		}
	})

	dstFmt := dst.Format()
	rounding := e.opts.rounding
	parallel.ForEachBand(pool, h, func(b parallel.Band) {
		row := make([]Texel, w)
		for y := b.Y0; y < b.Y1; y++ {
			in := staging[y*w : (y+1)*w]
			for x, c := range in {
				row[x] = Convert(c, dstFmt, rounding)
			}
			dst.buf.StoreRow(off.X, off.Y+y, w, row)
		}
	})
}

// requantize handles formats sharing a layout: each stored channel is
// rescaled between bit widths without leaving integer texels. Equal widths
// copy exactly.
func (e *Engine) requantize(pool *parallel.WorkerPool, view *intImage.Buf, srcFmt Format, dst *Image, off Offset) {
	w, h := view.Width(), view.Height()
	staged := make([]Texel, w*h)
	parallel.ForEachBand(pool, h, func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			view.LoadRow(0, y, w, staged[y*w:(y+1)*w])
		}
	})

	var from, to [4]int
	for i, c := range srcFmt.Layout.Channels() {
		from[i] = srcFmt.Depth.Bits(c)
		to[i] = dst.Format().Depth.Bits(c)
	}
	n := srcFmt.Layout.NumChannels()
	rounding := e.opts.rounding
	parallel.ForEachBand(pool, h, func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			row := staged[y*w : (y+1)*w]
			for x := range row {
				for i := range n {
					row[x][i] = intColor.Requantize(row[x][i], from[i], to[i], rounding)
				}
			}
			dst.buf.StoreRow(off.X, off.Y+y, w, row)
		}
	})
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return NewEngine()
})

// DefaultEngine returns the shared engine used by the package-level
// functions. It is never closed.
func DefaultEngine() *Engine {
	return defaultEngine()
}

// FullCopy runs Engine.FullCopy on the default engine.
func FullCopy(src Source, region Region, format Format) (*Image, error) {
	return defaultEngine().FullCopy(src, region, format)
}

// SubCopy runs Engine.SubCopy on the default engine.
func SubCopy(dst *Image, offset Offset, src Source, region Region) error {
	return defaultEngine().SubCopy(dst, offset, src, region)
}
