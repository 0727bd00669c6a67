package texcopy

import (
	"fmt"
	"image"
)

// Region is a rectangle of texels. Extents are signed so that negative
// requests can be detected and rejected.
type Region struct {
	X, Y          int
	Width, Height int
}

// Rect is shorthand for Region{x, y, width, height}.
func Rect(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the region covers no texels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns Width*Height, or 0 for an empty region.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Within reports whether r lies inside a width x height buffer.
// Zero-area regions with in-range origins are inside.
func (r Region) Within(width, height int) bool {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
		return false
	}
	return r.X <= width && r.Width <= width-r.X &&
		r.Y <= height && r.Height <= height-r.Y
}

// At returns the region of the same size placed at offset o.
func (r Region) At(o Offset) Region {
	return Region{X: o.X, Y: o.Y, Width: r.Width, Height: r.Height}
}

// Rectangle converts r to an image.Rectangle.
func (r Region) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", r.X, r.Y, r.Width, r.Height)
}

// Offset is the position of a write rectangle inside a destination image.
type Offset struct {
	X, Y int
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.X, o.Y)
}
