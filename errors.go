package texcopy

import (
	"errors"
	"fmt"

	intImage "github.com/gogpu/texcopy/internal/image"
)

// Sentinel errors for texcopy. Copy failures wrap exactly one of the first
// three in a *CopyError.
var (
	// ErrInvalidRegion is returned when a source or destination rectangle
	// has a negative extent or does not lie inside its image.
	ErrInvalidRegion = errors.New("texcopy: invalid region")

	// ErrSourceUnavailable is returned when the source has no readable
	// color image: the read buffer is disabled or nothing is attached.
	ErrSourceUnavailable = errors.New("texcopy: source unavailable")

	// ErrUnsupportedFormatPair is returned when the destination format is
	// undefined or cannot represent any channel of the source format.
	ErrUnsupportedFormatPair = errors.New("texcopy: unsupported format pair")

	// ErrNilImage is returned when a nil destination image is passed.
	ErrNilImage = errors.New("texcopy: nil image")

	// ErrInvalidAttachment is returned for attachment indices outside
	// [0, MaxColorAttachments).
	ErrInvalidAttachment = errors.New("texcopy: invalid attachment index")

	// ErrInvalidDimensions is returned when an image extent is negative.
	ErrInvalidDimensions = intImage.ErrInvalidDimensions

	// ErrInvalidFormat is returned when an image format is unknown or has
	// unsupported channel widths.
	ErrInvalidFormat = intImage.ErrInvalidFormat
)

// CopyError describes a rejected copy. No texel was written.
type CopyError struct {
	// Op is the operation name, "FullCopy" or "SubCopy".
	Op string

	// Err is the error kind (ErrInvalidRegion, ErrSourceUnavailable,
	// ErrUnsupportedFormatPair or ErrNilImage), possibly wrapped with detail.
	Err error
}

func (e *CopyError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

func copyError(op string, kind error, format string, args ...any) error {
	return &CopyError{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)}
}
