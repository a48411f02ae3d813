package canopy

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit color without alpha.
type RGB struct {
	R, G, B uint8
}

// ParseRGB parses a "#rrggbb" hex color.
func ParseRGB(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %w", ErrInvalidConfig, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// FromNRGBA drops the alpha channel of c.
func FromNRGBA(c color.NRGBA) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// String returns the "#rrggbb" form.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalTOML accepts either a hex string or an [r, g, b] array.
func (c *RGB) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		parsed, err := ParseRGB(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case []any:
		if len(v) != 3 {
			return fmt.Errorf("%w: color needs 3 channels, got %d", ErrInvalidConfig, len(v))
		}
		var ch [3]uint8
		for i, x := range v {
			n, ok := x.(int64)
			if !ok || n < 0 || n > 255 {
				return fmt.Errorf("%w: color channel %v not in 0-255", ErrInvalidConfig, x)
			}
			ch[i] = uint8(n)
		}
		*c = RGB{R: ch[0], G: ch[1], B: ch[2]}
		return nil
	default:
		return fmt.Errorf("%w: unsupported color value %T", ErrInvalidConfig, v)
	}
}

// Distance returns the L1 distance between two colors, in 0-765.
func Distance(a, b RGB) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Label is the classification of one map pixel.
type Label uint8

const (
	// Unlabeled pixels have not been covered by an accepted placement.
	Unlabeled Label = iota

	// ReferencePositive pixels were marked forest and lie within the
	// threshold of the reference color.
	ReferencePositive

	// ReferenceNegative pixels were marked forest but are too far from the
	// reference color.
	ReferenceNegative

	// NotApplicable pixels were marked "not forest".
	NotApplicable
)

// String returns a string representation of the label.
func (l Label) String() string {
	switch l {
	case Unlabeled:
		return "Unlabeled"
	case ReferencePositive:
		return "ReferencePositive"
	case ReferenceNegative:
		return "ReferenceNegative"
	case NotApplicable:
		return "NotApplicable"
	default:
		return "Unknown"
	}
}

// IsForest reports whether the label came from a forest stencil pixel.
func (l Label) IsForest() bool {
	return l == ReferencePositive || l == ReferenceNegative
}

// Classifier labels pixels against the two stencil sentinel colors.
type Classifier struct {
	// Forest is the stencil color meaning "forest here".
	Forest RGB

	// NotForest is the stencil color meaning "explicitly not forest".
	NotForest RGB

	// Threshold is the largest Distance from the reference color that
	// still counts as forest.
	Threshold int
}

// Classify labels a map pixel covered by a fragment stencil pixel.
//
// Only forest stencil pixels are checked against the reference color.
// Not-forest stencil pixels are NotApplicable whatever the map shows, and
// stencil pixels of any other color return Unlabeled: they are background
// and do not count.
func (c Classifier) Classify(stencil, mapPixel, ref RGB) Label {
	switch stencil {
	case c.Forest:
		if Distance(ref, mapPixel) <= c.Threshold {
			return ReferencePositive
		}
		return ReferenceNegative
	case c.NotForest:
		return NotApplicable
	default:
		return Unlabeled
	}
}

// ClassifyStored recognizes a pixel that was already masked by its color.
// Forest sentinel pixels come back as ReferencePositive: whether they were
// within the threshold is not recoverable from the color alone.
func (c Classifier) ClassifyStored(mapPixel RGB) Label {
	switch mapPixel {
	case c.NotForest:
		return NotApplicable
	case c.Forest:
		return ReferencePositive
	default:
		return Unlabeled
	}
}

// IsSentinel reports whether p equals one of the two sentinel colors.
func (c Classifier) IsSentinel(p RGB) bool {
	return p == c.Forest || p == c.NotForest
}

// Sentinel returns the color written into the map for a committed label.
func (c Classifier) Sentinel(l Label) RGB {
	if l == NotApplicable {
		return c.NotForest
	}
	return c.Forest
}
