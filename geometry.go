package canopy

import (
	"fmt"

	"github.com/gogpu/canopy/internal/image"
)

// Point is a position in UI space. The UI's y axis points up.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in UI space: (X, Y) is the bottom-left
// corner, Right = X+Width and Top = Y+Height.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns Y + Height.
func (r Rect) Top() float64 { return r.Y + r.Height }

// Intersects reports whether r and other touch or overlap.
// Shared edges count as touching.
func (r Rect) Intersects(other Rect) bool {
	return other.Right() >= r.X && other.X <= r.Right() &&
		other.Top() >= r.Y && other.Y <= r.Top()
}

// Normalized is a quad expressed relative to the map view: 0 is the left
// or bottom edge of the map, 1 the right or top edge. Values outside [0, 1]
// mean the quad hangs over the map edge.
type Normalized struct {
	X, Y, Right, Top float64
}

// ToNormalized maps a UI-space quad into coordinates relative to the map
// view. No clamping is applied.
func ToNormalized(view Rect, q Rect) Normalized {
	return Normalized{
		X:     (q.X - view.X) / view.Width,
		Y:     (q.Y - view.Y) / view.Height,
		Right: (q.Right() - view.X) / view.Width,
		Top:   (q.Top() - view.Y) / view.Height,
	}
}

// NormalizePoint maps a UI-space point into view-relative coordinates.
func NormalizePoint(view Rect, p Point) (x, y float64) {
	return (p.X - view.X) / view.Width, (p.Y - view.Y) / view.Height
}

// Clamp bounds every coordinate to [0, 1].
func (n Normalized) Clamp() Normalized {
	return Normalized{
		X:     clamp01(n.X),
		Y:     clamp01(n.Y),
		Right: clamp01(n.Right),
		Top:   clamp01(n.Top),
	}
}

// Bounds is a half-open pixel rectangle [RowStart, RowEnd) x [ColStart, ColEnd).
type Bounds struct {
	RowStart, RowEnd int
	ColStart, ColEnd int
}

// Rows returns the number of rows covered, never negative.
func (b Bounds) Rows() int { return max(b.RowEnd-b.RowStart, 0) }

// Cols returns the number of columns covered, never negative.
func (b Bounds) Cols() int { return max(b.ColEnd-b.ColStart, 0) }

// Area returns Rows() * Cols().
func (b Bounds) Area() int { return b.Rows() * b.Cols() }

// String implements fmt.Stringer.
func (b Bounds) String() string {
	return fmt.Sprintf("rows [%d, %d) cols [%d, %d)", b.RowStart, b.RowEnd, b.ColStart, b.ColEnd)
}

// PixelBounds converts normalized coordinates to pixel indices of a
// rows x cols buffer.
//
// Rows are inverted: the UI's y axis points up while buffer rows grow
// downwards, so the top edge (Top = 1) is row 0 and the bottom edge (Y = 0)
// is row `rows`. Conversion truncates toward zero.
//
// With clamp set, the coordinates are bounded to [0, 1] first and the result
// always lies inside the buffer; use that for scan bounds. Without clamp the
// result may extend past the buffer; its RowStart/ColStart is the origin of
// a fragment that hangs over the map edge.
func (n Normalized) PixelBounds(rows, cols int, clamp bool) Bounds {
	if clamp {
		n = n.Clamp()
	}
	r, c := float64(rows), float64(cols)
	return Bounds{
		RowStart: int((1 - n.Top) * r),
		RowEnd:   int((1 - n.Y) * r),
		ColStart: int(n.X * c),
		ColEnd:   int(n.Right * c),
	}
}

// Footprint returns the pixel size a fragment must be resampled to so it
// covers the quad at the buffer's resolution.
func (n Normalized) Footprint(rows, cols int) (fRows, fCols int) {
	return int((n.Top - n.Y) * float64(rows)), int((n.Right - n.X) * float64(cols))
}

// PointToPixel converts a view-relative point to a (row, col) index of a
// rows x cols buffer. Points outside the map return ErrOutOfBounds.
func PointToPixel(x, y float64, rows, cols int) (row, col int, err error) {
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return 0, 0, fmt.Errorf("%w: point (%g, %g) outside the map", ErrOutOfBounds, x, y)
	}
	row = min(int((1-y)*float64(rows)), rows-1)
	col = min(int(x*float64(cols)), cols-1)
	return row, col, nil
}

// Placement describes a fragment overlaid on the map at validation time.
type Placement struct {
	// Center is the UI-space center of the fragment.
	Center Point

	// Width and Height are the fragment's unscaled, unrotated on-screen size.
	Width, Height float64

	// Rotation is in degrees, counter-clockwise.
	Rotation float64

	// Scale is the uniform scale factor, 1 for the natural size.
	Scale float64
}

// NewPlacement returns an unrotated placement at scale 1.
func NewPlacement(center Point, width, height float64) Placement {
	return Placement{Center: center, Width: width, Height: height, Scale: 1}
}

// Quad returns the UI-space axis-aligned box covered by the rotated and
// scaled fragment.
func (p Placement) Quad() Rect {
	w, h := image.RotatedExtent(p.Width*p.Scale, p.Height*p.Scale, p.Rotation)
	return Rect{
		X:      p.Center.X - w/2,
		Y:      p.Center.Y - h/2,
		Width:  w,
		Height: h,
	}
}

// Translate returns the placement moved by (dx, dy).
func (p Placement) Translate(dx, dy float64) Placement {
	p.Center.X += dx
	p.Center.Y += dy
	return p
}

// Rotate returns the placement turned by deg degrees.
func (p Placement) Rotate(deg float64) Placement {
	p.Rotation = image.NormalizeDegrees(p.Rotation + deg)
	return p
}

// Rescale returns the placement with step added to its scale factor.
// The scale never drops below zero.
func (p Placement) Rescale(step float64) Placement {
	p.Scale = max(p.Scale+step, 0)
	return p
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
