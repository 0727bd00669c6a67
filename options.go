package texcopy

import "log/slog"

// DefaultParallelThreshold is the region area, in texels, from which an
// engine converts in parallel row bands.
const DefaultParallelThreshold = 64 * 1024

// EngineOption configures an Engine during creation.
//
// Example:
//
//	// Strict GLES component rules, serial conversion
//	e := texcopy.NewEngine(
//	    texcopy.WithStrictComponents(true),
//	    texcopy.WithWorkers(1),
//	)
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	logger            *slog.Logger
	rounding          Rounding
	workers           int
	parallelThreshold int
	strict            bool
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		rounding:          RoundNearest,
		workers:           0, // GOMAXPROCS
		parallelThreshold: DefaultParallelThreshold,
	}
}

// WithLogger sets the logger of the engine. Without it the engine logs to
// the package logger (see SetLogger).
func WithLogger(l *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithRounding selects the quantization rounding mode. Unknown modes are
// ignored.
func WithRounding(r Rounding) EngineOption {
	return func(o *engineOptions) {
		if r.IsValid() {
			o.rounding = r
		}
	}
}

// WithWorkers sets the number of conversion workers. 1 converts on the
// calling goroutine; 0 or less uses GOMAXPROCS.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithParallelThreshold sets the minimum region area, in texels, converted
// in parallel. Values below 1 are treated as 1.
func WithParallelThreshold(texels int) EngineOption {
	return func(o *engineOptions) {
		o.parallelThreshold = max(texels, 1)
	}
}

// WithStrictComponents enables the GLES component rule: every destination
// component must exist in the source format. By default a copy is allowed
// when source and destination share color or alpha.
func WithStrictComponents(strict bool) EngineOption {
	return func(o *engineOptions) {
		o.strict = strict
	}
}
