package parallel

// MinBandRows is the smallest band the splitter produces, except for the
// last band of a region.
const MinBandRows = 8

// Band is a horizontal run of whole rows, [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// SplitRows divides height rows into at most parts bands of near-equal size,
// none smaller than MinBandRows except the last. Returns nil for an empty
// height and a single band when parts <= 1.
func SplitRows(height, parts int) []Band {
	if height <= 0 {
		return nil
	}
	if parts <= 1 {
		return []Band{{Y0: 0, Y1: height}}
	}

	rows := (height + parts - 1) / parts
	rows = max(rows, MinBandRows)

	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}

// ForEachBand runs fn once per band of height rows. With a nil pool, or
// when only one band results, fn runs on the calling goroutine. The call
// returns after every band has finished.
func ForEachBand(pool *WorkerPool, height int, fn func(Band)) {
	parts := 1
	if pool != nil && pool.IsRunning() {
		parts = pool.Workers()
	}

	bands := SplitRows(height, parts)
	if len(bands) <= 1 || pool == nil {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	pool.ExecuteAll(work)
}
