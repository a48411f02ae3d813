package canopy

import (
	"cmp"
	"slices"

	"github.com/cenkalti/dominantcolor"
)

// Suggestion is a candidate reference color with its share of the map.
type Suggestion struct {
	Color  RGB
	Weight float64
}

// SuggestReferences returns up to k dominant colors of the map, heaviest
// first, as candidates for the reference color. Sentinel colors are never
// suggested: they mark pixels that are already labeled.
func (s *Session) SuggestReferences(k int) []Suggestion {
	if k <= 0 {
		return nil
	}
	c := s.engine.Classifier()
	found := dominantcolor.FindWeight(s.m.Pixels().ToStdImage(), k+2)

	out := make([]Suggestion, 0, len(found))
	for _, f := range found {
		rgb := RGB{R: f.RGBA.R, G: f.RGBA.G, B: f.RGBA.B}
		if c.IsSentinel(rgb) {
			continue
		}
		out = append(out, Suggestion{Color: rgb, Weight: f.Weight})
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
