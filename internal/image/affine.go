package image

import (
	"math"
)

// Affine is a 2D affine transformation in (col, row) pixel space.
//
// The transformation is represented as a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// Only the pieces the fragment rotation needs are provided.
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Rotation returns a rotation by angle radians around the origin.
//
// Pixel rows grow downwards, so a positive angle turns the image
// counter-clockwise as it is displayed.
func Rotation(angle float64) Affine {
	cos, sin := cosSin(angle)
	return Affine{
		a: cos, b: sin,
		d: -sin, e: cos,
	}
}

// Multiply returns a*other: other is applied first, then a.
func (a Affine) Multiply(other Affine) Affine {
	return Affine{
		a: a.a*other.a + a.b*other.d,
		b: a.a*other.b + a.b*other.e,
		c: a.a*other.c + a.b*other.f + a.c,
		d: a.d*other.a + a.e*other.d,
		e: a.d*other.b + a.e*other.e,
		f: a.d*other.c + a.e*other.f + a.f,
	}
}

// Invert returns the inverse transformation.
// Returns false if the matrix is singular.
func (a Affine) Invert() (Affine, bool) {
	det := a.a*a.e - a.b*a.d
	if math.Abs(det) < 1e-10 {
		return Affine{}, false
	}
	invDet := 1.0 / det

	return Affine{
		a: a.e * invDet,
		b: -a.b * invDet,
		c: (a.b*a.f - a.c*a.e) * invDet,
		d: -a.d * invDet,
		e: a.a * invDet,
		f: (a.c*a.d - a.a*a.f) * invDet,
	}, true
}

// TransformPoint applies the transformation to (x, y).
func (a Affine) TransformPoint(x, y float64) (float64, float64) {
	return a.a*x + a.b*y + a.c, a.d*x + a.e*y + a.f
}

// RotateAt returns a rotation by angle radians around (cx, cy).
func RotateAt(angle, cx, cy float64) Affine {
	return Translate(cx, cy).Multiply(Rotation(angle)).Multiply(Translate(-cx, -cy))
}

// cosSin returns exact values on the quarter turns so that 90/180/270
// degree rotations stay free of floating point drift.
func cosSin(angle float64) (float64, float64) {
	quarter := angle / (math.Pi / 2)
	if q := math.Round(quarter); math.Abs(quarter-q) < 1e-12 {
		switch ((int(q) % 4) + 4) % 4 {
		case 0:
			return 1, 0
		case 1:
			return 0, 1
		case 2:
			return -1, 0
		default:
			return 0, -1
		}
	}
	return math.Cos(angle), math.Sin(angle)
}
