package canopy

import (
	"fmt"

	"github.com/gogpu/canopy/internal/image"
)

// PixelBuffer is an owned, mutable 2D array of RGBA pixels addressed by
// (row, col), row 0 at the top.
type PixelBuffer = image.Buf

// BufferPool recycles scratch buffers of identical shape.
type BufferPool = image.Pool

// NewPixelBuffer creates a transparent black rows x cols buffer.
func NewPixelBuffer(rows, cols int) (*PixelBuffer, error) {
	return image.New(rows, cols)
}

// LoadPixelBuffer reads an image file into an RGBA buffer.
// Missing or unreadable files wrap ErrIO; gray or alpha-only images wrap ErrFormat.
func LoadPixelBuffer(path string) (*PixelBuffer, error) {
	return image.Load(path)
}

// NewBufferPool creates a pool keeping at most maxPerShape buffers per shape.
func NewBufferPool(maxPerShape int) *BufferPool {
	return image.NewPool(maxPerShape)
}

// Transform rotates fragment by deg degrees counter-clockwise about its
// center on an expanded canvas, then resizes it to exactly rows x cols.
// Both steps use nearest-neighbor sampling.
//
// Only the color channels carry meaning in the result. A 0 degree rotation
// to the fragment's own size reproduces it pixel for pixel; fragment itself
// is never modified.
func Transform(fragment *PixelBuffer, deg float64, rows, cols int) (*PixelBuffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: transform target %dx%d", ErrInvalidSize, rows, cols)
	}
	return image.Resize(image.Rotate(fragment, deg), rows, cols)
}

// transformInto is Transform writing into a caller-provided buffer whose
// shape is the target size.
func transformInto(dst, fragment *PixelBuffer, deg float64) {
	rotated := image.Rotate(fragment, deg)
	if rotated.Rows() == dst.Rows() && rotated.Cols() == dst.Cols() {
		copy(dst.Data(), rotated.Data())
		return
	}
	image.ResizeInto(dst, rotated)
}
