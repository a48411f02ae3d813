// Package canopy is the masking engine of a forest labeling game.
//
// # Overview
//
// Players lay stencil fragments over a satellite map to mark forest. Each
// fragment uses two sentinel colors, one meaning "forest here" and one
// meaning "not forest". When a fragment is placed, the engine resamples it
// to the placement's footprint, checks the map pixels under its forest
// regions against a reference color the player picked, and either accepts
// the placement, overwriting the covered pixels with the sentinel colors,
// or rejects it and leaves the map alone.
//
// # Quick Start
//
//	cfg := canopy.DefaultConfig()
//	m, _ := canopy.LoadMap("levels/valley.png")
//	frag, _ := canopy.LoadPixelBuffer("fragments/grove.png")
//
//	s, _ := canopy.NewSession(m, canopy.Rect{Width: 800, Height: 600}, cfg)
//	s.PickReference(canopy.Point{X: 410, Y: 220})
//
//	p := canopy.NewPlacement(canopy.Point{X: 400, Y: 300}, 120, 90).Rotate(30)
//	out, err := s.Place(frag, p)
//
// # Coordinate Systems
//
// Placements are given in UI space, where y grows upwards. Pixel buffers
// are addressed by (row, col) with row 0 at the top. The mapping between
// the two goes through view-relative coordinates in [0, 1]; see
// [Normalized.PixelBounds].
//
// # Labels
//
// Besides overwriting colors, every map carries a [LabelMask] recording
// which pixels were labeled and how. "Already labeled" is decided by the
// mask, so map pixels that happen to share a sentinel color are still
// scanned.
package canopy

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
