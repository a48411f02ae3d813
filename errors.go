package canopy

import (
	"errors"

	"github.com/gogpu/canopy/internal/image"
)

// Buffer errors, shared with the underlying pixel buffer package.
var (
	// ErrIO reports a file that is missing, unreadable or unwritable.
	ErrIO = image.ErrIO

	// ErrFormat reports a decoded image with neither 3 nor 4 color channels.
	ErrFormat = image.ErrFormat

	// ErrShapeMismatch reports a source buffer that does not fit its target rectangle.
	ErrShapeMismatch = image.ErrShapeMismatch

	// ErrOutOfBounds reports a row, column or point outside the buffer.
	ErrOutOfBounds = image.ErrOutOfBounds

	// ErrInvalidSize reports a zero or negative resample target.
	ErrInvalidSize = image.ErrInvalidSize
)

// Masking and session errors.
var (
	// ErrPrecondition is returned when masking is attempted before a
	// reference color was chosen.
	ErrPrecondition = errors.New("canopy: reference color not chosen")

	// ErrNoOverlap is returned when a placement does not touch the map at all.
	ErrNoOverlap = errors.New("canopy: placement does not overlap the map")

	// ErrSessionOver is returned for placements after the level was won or abandoned.
	ErrSessionOver = errors.New("canopy: session is over")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("canopy: invalid config")
)
