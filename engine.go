package canopy

import (
	"context"
	"fmt"
	"log/slog"
)

// Result describes one masking attempt.
type Result struct {
	// Valid reports whether the placement was accepted and committed.
	Valid bool

	// Labeled counts the covered pixels the stencil classified, forest or
	// not forest. It is reported for rejected attempts too.
	Labeled int

	// Off counts forest stencil pixels too far from the reference color.
	Off int

	// Total is the area of the clamped pixel rectangle.
	Total int

	// Bounds is the clamped pixel rectangle that was scanned.
	Bounds Bounds
}

// Accuracy returns (Total-Off)/Total, or 0 for an empty rectangle.
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Total-r.Off) / float64(r.Total)
}

// PassesRate reports whether (total-off)/total reaches rate.
// An empty rectangle never passes.
func PassesRate(total, off int, rate float64) bool {
	if total <= 0 {
		return false
	}
	return float64(total-off)/float64(total) >= rate
}

// Engine validates fragment placements and masks the map.
//
// An Engine holds no per-map state and may be shared by sessions running
// on different goroutines, as long as each Map has a single user.
type Engine struct {
	classifier Classifier
	rate       float64
	pool       *BufferPool
}

// NewEngine creates an engine using the sentinels, threshold and
// validation rate from cfg.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		classifier: cfg.Classifier(),
		rate:       cfg.ValidationRate,
		pool:       o.pool,
	}
}

// Classifier returns the classifier the engine labels pixels with.
func (e *Engine) Classifier() Classifier { return e.classifier }

// AttemptMask validates a fragment laid over the map at the view-relative
// quad at, rotated by rotation degrees, and commits the mask if the
// placement is accepted.
//
// The fragment is resampled to the quad's footprint at the map resolution.
// Every not yet labeled map pixel inside the quad, clipped to the map, is
// looked up in the resampled stencil: not-forest stencil pixels are labeled
// unconditionally, forest stencil pixels are compared with ref, and any
// other stencil color is skipped. The placement is accepted when
// (Total-Off)/Total reaches the validation rate.
//
// Mutation is all-or-nothing: a rejected attempt, or one that returns an
// error, leaves the map bit-identical. A quad with no area after clipping
// is rejected without error. A nil ref returns ErrPrecondition.
func (e *Engine) AttemptMask(m *Map, fragment *PixelBuffer, at Normalized, rotation float64, ref *RGB) (Result, error) {
	if ref == nil {
		return Result{}, ErrPrecondition
	}
	rows, cols := m.Rows(), m.Cols()
	bounds := at.PixelBounds(rows, cols, true)
	origin := at.PixelBounds(rows, cols, false)
	res := Result{Bounds: bounds}

	fRows, fCols := at.Footprint(rows, cols)
	if bounds.Area() == 0 || fRows <= 0 || fCols <= 0 {
		Logger().Debug("canopy: empty placement", "bounds", bounds, "footprint_rows", fRows, "footprint_cols", fCols)
		return res, nil
	}
	res.Total = bounds.Area()

	stencil, release, err := e.resample(fragment, rotation, fRows, fCols)
	if err != nil {
		return Result{}, err
	}
	defer release()

	var diag *distanceLog
	if Logger().Enabled(context.Background(), slog.LevelDebug) {
		diag = &distanceLog{}
	}

	edits := make([]edit, 0, res.Total)
	pixels := m.Pixels()
	for row := bounds.RowStart; row < bounds.RowEnd; row++ {
		fr := row - origin.RowStart
		if fr < 0 || fr >= fRows {
			continue
		}
		for col := bounds.ColStart; col < bounds.ColEnd; col++ {
			fc := col - origin.ColStart
			if fc < 0 || fc >= fCols || m.IsLabeled(row, col) {
				continue
			}
			sr, sg, sb := stencil.RGBAt(fr, fc)
			mr, mg, mb := pixels.RGBAt(row, col)
			s, p := RGB{R: sr, G: sg, B: sb}, RGB{R: mr, G: mg, B: mb}

			label := e.classifier.Classify(s, p, *ref)
			switch label {
			case Unlabeled:
				continue
			case ReferenceNegative:
				res.Off++
			}
			if diag != nil && label.IsForest() {
				diag.add(Distance(*ref, p))
			}
			res.Labeled++
			edits = append(edits, edit{index: row*cols + col, label: label})
		}
	}

	res.Valid = PassesRate(res.Total, res.Off, e.rate)
	if diag != nil {
		diag.log(res, e.classifier.Threshold)
	}
	if !res.Valid {
		return res, nil
	}
	m.commit(edits, e.classifier)
	return res, nil
}

// resample transforms fragment to rows x cols, using a pooled scratch
// buffer when the engine has a pool. release returns the buffer.
func (e *Engine) resample(fragment *PixelBuffer, rotation float64, rows, cols int) (*PixelBuffer, func(), error) {
	if fragment == nil {
		return nil, nil, fmt.Errorf("%w: nil fragment", ErrInvalidSize)
	}
	if e.pool == nil {
		out, err := Transform(fragment, rotation, rows, cols)
		return out, func() {}, err
	}
	scratch := e.pool.Get(rows, cols)
	if scratch == nil {
		return nil, nil, fmt.Errorf("%w: footprint %dx%d", ErrInvalidSize, rows, cols)
	}
	transformInto(scratch, fragment, rotation)
	return scratch, func() { e.pool.Put(scratch) }, nil
}
