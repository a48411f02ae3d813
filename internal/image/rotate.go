package image

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// NormalizeDegrees maps any angle into [0, 360). Negative angles wrap,
// so -90 and 270 are the same rotation.
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// RotatedExtent returns the axis-aligned width and height covered by a
// w x h rectangle after a rotation of deg degrees about its center.
func RotatedExtent(w, h, deg float64) (float64, float64) {
	cos, sin := cosSin(NormalizeDegrees(deg) * math.Pi / 180)
	cos, sin = math.Abs(cos), math.Abs(sin)
	return w*cos + h*sin, w*sin + h*cos
}

// RotatedSize returns the canvas needed to hold a rows x cols image rotated
// by deg degrees without clipping its corners.
func RotatedSize(rows, cols int, deg float64) (int, int) {
	w, h := RotatedExtent(float64(cols), float64(rows), deg)
	return max(int(h+0.5), 1), max(int(w+0.5), 1)
}

// Rotate returns src rotated counter-clockwise by deg degrees about its
// center, using nearest-neighbor sampling on an expanded canvas.
//
// Only the color channels are carried over: every pixel that maps back into
// src is written with alpha 255, and canvas corners that fall outside src
// stay transparent black. src is not modified.
func Rotate(src *Buf, deg float64) *Buf {
	deg = NormalizeDegrees(deg)
	if deg == 0 {
		out := src.Clone()
		out.SetAlpha(255)
		return out
	}

	rows, cols := RotatedSize(src.rows, src.cols, deg)
	out, _ := New(rows, cols)

	cx, cy := float64(src.cols)/2, float64(src.rows)/2
	forward := Translate(float64(cols)/2-cx, float64(rows)/2-cy).
		Multiply(RotateAt(deg*math.Pi/180, cx, cy))
	inverse, ok := forward.Invert()
	if !ok {
		return out
	}

	for row := 0; row < rows; row++ {
		dst := out.RowBytes(row)
		for col := 0; col < cols; col++ {
			// Sample at pixel centers and map back into src.
			sx, sy := inverse.TransformPoint(float64(col)+0.5, float64(row)+0.5)
			srcOff := src.PixelOffset(int(math.Floor(sy)), int(math.Floor(sx)))
			if srcOff < 0 {
				continue
			}
			off := col * bytesPerPixel
			dst[off] = src.data[srcOff]
			dst[off+1] = src.data[srcOff+1]
			dst[off+2] = src.data[srcOff+2]
			dst[off+3] = 255
		}
	}
	return out
}

// ResizeInto scales src onto dst with nearest-neighbor sampling, filling dst
// completely; equal sizes copy opaque pixels exactly. Translucent pixels go through
// a premultiplied round trip and may lose precision; Rotate never emits them.
func ResizeInto(dst, src *Buf) {
	xdraw.NearestNeighbor.Scale(dst.view(), dst.view().Rect, src.view(), src.view().Rect, xdraw.Src, nil)
}

// Resize returns src scaled to rows x cols with nearest-neighbor sampling.
func Resize(src *Buf, rows, cols int) (*Buf, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrInvalidSize, rows, cols)
	}
	out, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	ResizeInto(out, src)
	return out, nil
}

// view exposes the buffer as an *image.NRGBA sharing the same memory.
func (b *Buf) view() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.cols * bytesPerPixel,
		Rect:   image.Rect(0, 0, b.cols, b.rows),
	}
}
