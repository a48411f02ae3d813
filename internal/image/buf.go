// Package image provides the RGBA pixel buffer used by canopy for maps and
// fragment stencils.
//
// A Buf is addressed by (row, col) with row 0 at the top of the image, the
// same orientation the decoded file has on disk. Every Buf is RGBA8: sources
// with three channels are promoted with an opaque alpha on load, and all
// writes supply four channels.
package image

import (
	"errors"
	"fmt"
	"image/color"
)

// Common errors for buffer operations.
var (
	// ErrInvalidSize is returned when a requested size has a non-positive dimension.
	ErrInvalidSize = errors.New("image: invalid size")

	// ErrOutOfBounds is returned when a row or column range lies outside the buffer.
	ErrOutOfBounds = errors.New("image: index out of bounds")

	// ErrShapeMismatch is returned when a source buffer does not match the target rectangle.
	ErrShapeMismatch = errors.New("image: shape mismatch")

	// ErrFormat is returned when a decoded image has neither 3 nor 4 color channels.
	ErrFormat = errors.New("image: unsupported channel layout")

	// ErrIO is returned when a file cannot be opened, decoded, created or written.
	ErrIO = errors.New("image: i/o failure")
)

// bytesPerPixel is fixed: every buffer is RGBA8.
const bytesPerPixel = 4

// Buf is an owned, mutable 2D array of RGBA pixels.
//
// Thread safety: Buf has no internal locking. It is meant to be owned by a
// single session; concurrent readers are fine as long as nothing writes.
type Buf struct {
	data []byte
	rows int
	cols int
}

// New creates a transparent black buffer with the given number of rows and columns.
func New(rows, cols int) (*Buf, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	return &Buf{
		data: make([]byte, rows*cols*bytesPerPixel),
		rows: rows,
		cols: cols,
	}, nil
}

// FromRaw wraps existing RGBA data without copying.
// The slice must hold at least rows*cols*4 bytes.
func FromRaw(data []byte, rows, cols int) (*Buf, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	need := rows * cols * bytesPerPixel
	if len(data) < need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShapeMismatch, len(data), need)
	}
	return &Buf{data: data[:need], rows: rows, cols: cols}, nil
}

// Clone creates a deep copy of the buffer.
func (b *Buf) Clone() *Buf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buf{data: data, rows: b.rows, cols: b.cols}
}

// Rows returns the buffer height in pixels.
func (b *Buf) Rows() int {
	return b.rows
}

// Cols returns the buffer width in pixels.
func (b *Buf) Cols() int {
	return b.cols
}

// Size returns rows*cols.
func (b *Buf) Size() int {
	return b.rows * b.cols
}

// Data returns the raw RGBA bytes, row-major, 4 bytes per pixel.
func (b *Buf) Data() []byte {
	return b.data
}

// RowBytes returns the pixel bytes of one row, or nil if row is out of range.
func (b *Buf) RowBytes(row int) []byte {
	if row < 0 || row >= b.rows {
		return nil
	}
	stride := b.cols * bytesPerPixel
	return b.data[row*stride : (row+1)*stride]
}

// PixelOffset returns the byte offset of (row, col), or -1 when out of range.
func (b *Buf) PixelOffset(row, col int) int {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return -1
	}
	return (row*b.cols + col) * bytesPerPixel
}

// At returns the pixel at (row, col). Out of range reads return transparent black.
func (b *Buf) At(row, col int) color.NRGBA {
	off := b.PixelOffset(row, col)
	if off < 0 {
		return color.NRGBA{}
	}
	p := b.data[off : off+bytesPerPixel : off+bytesPerPixel]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// RGBAt returns the color channels of (row, col) without alpha.
func (b *Buf) RGBAt(row, col int) (r, g, bl uint8) {
	c := b.At(row, col)
	return c.R, c.G, c.B
}

// Set writes the pixel at (row, col).
func (b *Buf) Set(row, col int, c color.NRGBA) error {
	off := b.PixelOffset(row, col)
	if off < 0 {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, b.rows, b.cols)
	}
	b.data[off] = c.R
	b.data[off+1] = c.G
	b.data[off+2] = c.B
	b.data[off+3] = c.A
	return nil
}

// SetRGB overwrites the color channels of (row, col) and leaves alpha untouched.
func (b *Buf) SetRGB(row, col int, r, g, bl uint8) error {
	off := b.PixelOffset(row, col)
	if off < 0 {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, row, col, b.rows, b.cols)
	}
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	return nil
}

// Clear sets all pixels to transparent black.
func (b *Buf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to c.
func (b *Buf) Fill(c color.NRGBA) {
	for i := 0; i < len(b.data); i += bytesPerPixel {
		b.data[i] = c.R
		b.data[i+1] = c.G
		b.data[i+2] = c.B
		b.data[i+3] = c.A
	}
}

// SetAlpha overwrites the alpha channel of every pixel.
func (b *Buf) SetAlpha(a uint8) {
	for i := 3; i < len(b.data); i += bytesPerPixel {
		b.data[i] = a
	}
}

// checkRange validates the half-open ranges [r0, r1) x [c0, c1).
func (b *Buf) checkRange(r0, r1, c0, c1 int) error {
	if r0 < 0 || c0 < 0 || r1 > b.rows || c1 > b.cols || r0 > r1 || c0 > c1 {
		return fmt.Errorf("%w: rows [%d, %d) cols [%d, %d) in %dx%d",
			ErrOutOfBounds, r0, r1, c0, c1, b.rows, b.cols)
	}
	return nil
}

// Region returns a copy of rows [r0, r1) and columns [c0, c1).
// The region must be non-empty and lie inside the buffer.
func (b *Buf) Region(r0, r1, c0, c1 int) (*Buf, error) {
	if err := b.checkRange(r0, r1, c0, c1); err != nil {
		return nil, err
	}
	if r0 == r1 || c0 == c1 {
		return nil, fmt.Errorf("%w: empty region", ErrOutOfBounds)
	}

	out, err := New(r1-r0, c1-c0)
	if err != nil {
		return nil, err
	}
	width := (c1 - c0) * bytesPerPixel
	for row := r0; row < r1; row++ {
		src := b.RowBytes(row)[c0*bytesPerPixel:]
		copy(out.RowBytes(row-r0), src[:width])
	}
	return out, nil
}

// SetRegion overwrites rows [r0, r1) and columns [c0, c1) with src.
// src must have exactly r1-r0 rows and c1-c0 columns.
func (b *Buf) SetRegion(r0, r1, c0, c1 int, src *Buf) error {
	if err := b.checkRange(r0, r1, c0, c1); err != nil {
		return err
	}
	if src == nil || src.rows != r1-r0 || src.cols != c1-c0 {
		got := "nil"
		if src != nil {
			got = fmt.Sprintf("%dx%d", src.rows, src.cols)
		}
		return fmt.Errorf("%w: target %dx%d, source %s", ErrShapeMismatch, r1-r0, c1-c0, got)
	}

	width := (c1 - c0) * bytesPerPixel
	for row := r0; row < r1; row++ {
		dst := b.RowBytes(row)[c0*bytesPerPixel:]
		copy(dst[:width], src.RowBytes(row-r0))
	}
	return nil
}

// Equal reports whether two buffers have the same shape and identical bytes.
func (b *Buf) Equal(other *Buf) bool {
	if other == nil || b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := range b.data {
		if b.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// EqualRGB is Equal with the alpha channel ignored.
func (b *Buf) EqualRGB(other *Buf) bool {
	if other == nil || b.rows != other.rows || b.cols != other.cols {
		return false
	}
	for i := 0; i < len(b.data); i += bytesPerPixel {
		if b.data[i] != other.data[i] ||
			b.data[i+1] != other.data[i+1] ||
			b.data[i+2] != other.data[i+2] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (b *Buf) String() string {
	return fmt.Sprintf("image.Buf(%dx%d)", b.rows, b.cols)
}
