package canopy

import (
	"fmt"
)

// LabelMask holds one Label per map pixel, parallel to the pixel buffer.
//
// The map colors are still overwritten with sentinel colors on commit, but
// "already labeled" is decided here, so a satellite pixel that happens to
// match a sentinel color is not mistaken for a labeled one.
type LabelMask struct {
	rows   int
	cols   int
	labels []Label
}

// NewLabelMask returns an all-Unlabeled mask.
func NewLabelMask(rows, cols int) *LabelMask {
	return &LabelMask{rows: rows, cols: cols, labels: make([]Label, rows*cols)}
}

// LabelMaskFromBytes rebuilds a mask from the bytes returned by Bytes.
func LabelMaskFromBytes(rows, cols int, data []byte) (*LabelMask, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: label mask %dx%d from %d bytes", ErrShapeMismatch, rows, cols, len(data))
	}
	m := NewLabelMask(rows, cols)
	for i, v := range data {
		if Label(v) > NotApplicable {
			return nil, fmt.Errorf("%w: label value %d at %d", ErrFormat, v, i)
		}
		m.labels[i] = Label(v)
	}
	return m, nil
}

// seedLabels recognizes pixels that already carry a sentinel color.
func seedLabels(pixels *PixelBuffer, c Classifier) *LabelMask {
	m := NewLabelMask(pixels.Rows(), pixels.Cols())
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			r, g, b := pixels.RGBAt(row, col)
			m.labels[row*m.cols+col] = c.ClassifyStored(RGB{R: r, G: g, B: b})
		}
	}
	return m
}

// Rows returns the mask height.
func (m *LabelMask) Rows() int { return m.rows }

// Cols returns the mask width.
func (m *LabelMask) Cols() int { return m.cols }

// At returns the label of (row, col); out of range reads are Unlabeled.
func (m *LabelMask) At(row, col int) Label {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return Unlabeled
	}
	return m.labels[row*m.cols+col]
}

// Count returns how many pixels carry label l.
func (m *LabelMask) Count(l Label) int {
	n := 0
	for _, v := range m.labels {
		if v == l {
			n++
		}
	}
	return n
}

// Labeled returns how many pixels carry any label.
func (m *LabelMask) Labeled() int {
	return len(m.labels) - m.Count(Unlabeled)
}

// Bytes returns a copy of the mask, one byte per pixel, row-major.
func (m *LabelMask) Bytes() []byte {
	out := make([]byte, len(m.labels))
	for i, v := range m.labels {
		out[i] = byte(v)
	}
	return out
}

// Map is a level map: its pixel buffer and the label mask that goes with it.
// A Map is owned by a single session; it has no internal locking.
type Map struct {
	pixels *PixelBuffer
	labels *LabelMask
}

// NewMap wraps a fresh level image; no pixel is labeled yet, whatever
// its color.
func NewMap(pixels *PixelBuffer) *Map {
	return &Map{pixels: pixels, labels: NewLabelMask(pixels.Rows(), pixels.Cols())}
}

// NewMapFromSentinels wraps a partially labeled map saved without its label
// sidecar: every pixel painted with one of c's sentinel colors counts as
// labeled. Forest sentinel pixels come back as ReferencePositive.
func NewMapFromSentinels(pixels *PixelBuffer, c Classifier) *Map {
	return &Map{pixels: pixels, labels: seedLabels(pixels, c)}
}

// NewMapWithLabels pairs pixels with a previously saved label mask.
func NewMapWithLabels(pixels *PixelBuffer, labels *LabelMask) (*Map, error) {
	if labels.rows != pixels.Rows() || labels.cols != pixels.Cols() {
		return nil, fmt.Errorf("%w: labels %dx%d, pixels %dx%d",
			ErrShapeMismatch, labels.rows, labels.cols, pixels.Rows(), pixels.Cols())
	}
	return &Map{pixels: pixels, labels: labels}, nil
}

// LoadMap reads a level image and wraps it with NewMap.
func LoadMap(path string) (*Map, error) {
	pixels, err := LoadPixelBuffer(path)
	if err != nil {
		return nil, err
	}
	return NewMap(pixels), nil
}

// Pixels returns the live pixel buffer.
func (m *Map) Pixels() *PixelBuffer { return m.pixels }

// Labels returns the live label mask.
func (m *Map) Labels() *LabelMask { return m.labels }

// Rows returns the map height in pixels.
func (m *Map) Rows() int { return m.pixels.Rows() }

// Cols returns the map width in pixels.
func (m *Map) Cols() int { return m.pixels.Cols() }

// Total returns the number of map pixels, the denominator of progress.
func (m *Map) Total() int { return m.pixels.Size() }

// IsLabeled reports whether (row, col) was labeled by an earlier commit.
func (m *Map) IsLabeled(row, col int) bool {
	return m.labels.At(row, col) != Unlabeled
}

// Snapshot returns a render-ready copy of the pixels. Later commits do not
// affect it.
func (m *Map) Snapshot() *PixelBuffer {
	return m.pixels.Clone()
}

// commit applies a set of recorded overwrites.
func (m *Map) commit(edits []edit, c Classifier) {
	data := m.pixels.Data()
	for _, e := range edits {
		s := c.Sentinel(e.label)
		off := e.index * 4
		data[off] = s.R
		data[off+1] = s.G
		data[off+2] = s.B
		m.labels.labels[e.index] = e.label
	}
}

// edit is one pending pixel overwrite, index = row*cols + col.
type edit struct {
	index int
	label Label
}
