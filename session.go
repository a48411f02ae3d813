package canopy

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// referenceWindow is the side of the square sampled by PickReference.
const referenceWindow = 4

// Sink persists a finished map. It returns where the map was written.
type Sink interface {
	SaveResult(name string, pixels *PixelBuffer, labels []byte) (string, error)
}

// Outcome is the result of Session.Place.
type Outcome struct {
	Result

	// Progress is the session tally divided by the map's pixel count.
	Progress float64

	// Won reports whether this placement completed the level.
	Won bool
}

// Session is one attempt at labeling a level map.
//
// A Session owns its Map exclusively and is not safe for concurrent use:
// placements are validated one at a time, in the order they are made.
type Session struct {
	m        *Map
	view     Rect
	engine   *Engine
	complete float64

	ref   *RGB
	tally int
	won   bool
	over  bool
}

// NewSession starts a session on m. view is the map's on-screen box in UI
// coordinates; placements and picked points are given relative to it.
func NewSession(m *Map, view Rect, cfg Config, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, fmt.Errorf("%w: map view %gx%g", ErrInvalidSize, view.Width, view.Height)
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = NewEngine(cfg)
	}
	s := &Session{
		m:        m,
		view:     view,
		engine:   o.engine,
		complete: cfg.CompletePercent,
		ref:      o.reference,
	}
	Logger().Info("canopy: session started",
		"rows", m.Rows(), "cols", m.Cols(), "labeled", m.Labels().Labeled())
	return s, nil
}

// Map returns the session's map.
func (s *Session) Map() *Map { return s.m }

// View returns the map's on-screen box.
func (s *Session) View() Rect { return s.view }

// Reference returns the chosen reference color, or nil before one was chosen.
func (s *Session) Reference() *RGB {
	if s.ref == nil {
		return nil
	}
	c := *s.ref
	return &c
}

// SetReference chooses the reference color directly.
func (s *Session) SetReference(c RGB) {
	s.ref = &c
	Logger().Info("canopy: reference color chosen", "color", c)
}

// PickReference chooses the reference color by sampling the map under the
// UI point p: the integer mean of the 4x4 pixel window centered there,
// clipped to the map. Points off the map return ErrOutOfBounds.
func (s *Session) PickReference(p Point) (RGB, error) {
	x, y := NormalizePoint(s.view, p)
	row, col, err := PointToPixel(x, y, s.m.Rows(), s.m.Cols())
	if err != nil {
		return RGB{}, err
	}
	c := meanColor(s.m.Pixels(), row, col)
	s.SetReference(c)
	return c, nil
}

// meanColor averages the window [row-2, row+2) x [col-2, col+2).
func meanColor(pixels *PixelBuffer, row, col int) RGB {
	half := referenceWindow / 2
	r0, r1 := max(row-half, 0), min(row+half, pixels.Rows())
	c0, c1 := max(col-half, 0), min(col+half, pixels.Cols())
	if r1 <= r0 {
		r0, r1 = row, row+1
	}
	if c1 <= c0 {
		c0, c1 = col, col+1
	}

	n := (r1 - r0) * (c1 - c0)
	ch := [3][]float64{make([]float64, 0, n), make([]float64, 0, n), make([]float64, 0, n)}
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			pr, pg, pb := pixels.RGBAt(r, c)
			ch[0] = append(ch[0], float64(pr))
			ch[1] = append(ch[1], float64(pg))
			ch[2] = append(ch[2], float64(pb))
		}
	}
	return RGB{
		R: uint8(stat.Mean(ch[0], nil)),
		G: uint8(stat.Mean(ch[1], nil)),
		B: uint8(stat.Mean(ch[2], nil)),
	}
}

// Place validates fragment at placement p and masks the map if accepted.
//
// A placement whose box misses the map entirely returns ErrNoOverlap.
// Placements after the level was won or abandoned return ErrSessionOver.
// In both cases, and for a rejected placement, the map is unchanged.
func (s *Session) Place(fragment *PixelBuffer, p Placement) (Outcome, error) {
	if s.over {
		return Outcome{}, ErrSessionOver
	}
	quad := p.Quad()
	if !s.view.Intersects(quad) {
		return Outcome{}, fmt.Errorf("%w: placement at (%g, %g)", ErrNoOverlap, p.Center.X, p.Center.Y)
	}

	res, err := s.engine.AttemptMask(s.m, fragment, ToNormalized(s.view, quad), p.Rotation, s.ref)
	if err != nil {
		return Outcome{}, err
	}

	if !res.Valid {
		Logger().Warn("canopy: placement rejected",
			"off", res.Off, "total", res.Total, "accuracy", res.Accuracy())
		return Outcome{Result: res, Progress: s.Progress()}, nil
	}

	s.tally += res.Labeled
	out := Outcome{Result: res, Progress: s.Progress()}
	Logger().Info("canopy: placement accepted",
		"labeled", res.Labeled, "progress", out.Progress)
	if out.Progress >= s.complete {
		s.won = true
		s.over = true
		out.Won = true
		Logger().Info("canopy: level complete", "progress", out.Progress)
	}
	return out, nil
}

// Tally returns the number of pixels labeled by accepted placements.
func (s *Session) Tally() int { return s.tally }

// Progress returns Tally divided by the map's pixel count.
func (s *Session) Progress() float64 {
	total := s.m.Total()
	if total == 0 {
		return 0
	}
	return float64(s.tally) / float64(total)
}

// Won reports whether the level was completed.
func (s *Session) Won() bool { return s.won }

// Over reports whether the session accepts no more placements.
func (s *Session) Over() bool { return s.over }

// Abandon ends the session without winning. The map keeps its labels.
func (s *Session) Abandon() {
	if !s.over {
		s.over = true
		Logger().Info("canopy: session abandoned", "progress", s.Progress())
	}
}

// Snapshot returns a render-ready copy of the current map.
func (s *Session) Snapshot() *PixelBuffer {
	return s.m.Snapshot()
}

// Save hands a copy of the map and its labels to sink under name.
func (s *Session) Save(sink Sink, name string) (string, error) {
	path, err := sink.SaveResult(name, s.m.Snapshot(), s.m.Labels().Bytes())
	if err != nil {
		return "", err
	}
	Logger().Info("canopy: map saved", "path", path)
	return path, nil
}
