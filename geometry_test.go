package canopy

import (
	"errors"
	"math"
	"testing"
)

func TestToNormalized(t *testing.T) {
	view := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	got := ToNormalized(view, Rect{X: 50, Y: 100, Width: 100, Height: 100})
	want := Normalized{X: -0.25, Y: 0.5, Right: 0.25, Top: 1.5}
	if got != want {
		t.Errorf("ToNormalized() = %+v, want %+v", got, want)
	}

	x, y := NormalizePoint(view, Point{X: 300, Y: 50})
	if x != 1 || y != 0 {
		t.Errorf("NormalizePoint() = (%g, %g), want (1, 0)", x, y)
	}
}

func TestPixelBounds_RowInversion(t *testing.T) {
	const rows, cols = 40, 30

	full := Normalized{X: 0, Y: 0, Right: 1, Top: 1}.PixelBounds(rows, cols, true)
	if full.RowStart != 0 {
		t.Errorf("top edge (y=1) maps to row %d, want 0", full.RowStart)
	}
	if full.RowEnd != rows {
		t.Errorf("bottom edge (y=0) maps to row %d, want %d", full.RowEnd, rows)
	}
	if full.Area() != rows*cols {
		t.Errorf("Area() = %d, want %d", full.Area(), rows*cols)
	}

	upper := Normalized{X: 0, Y: 0.75, Right: 0.5, Top: 1}.PixelBounds(rows, cols, true)
	if want := (Bounds{RowStart: 0, RowEnd: 10, ColStart: 0, ColEnd: 15}); upper != want {
		t.Errorf("upper-left quarter = %v, want %v", upper, want)
	}
}

func TestPixelBounds_Clamp(t *testing.T) {
	n := Normalized{X: -0.5, Y: -0.25, Right: 0.5, Top: 0.5}

	clamped := n.PixelBounds(10, 10, true)
	if want := (Bounds{RowStart: 5, RowEnd: 10, ColStart: 0, ColEnd: 5}); clamped != want {
		t.Errorf("clamped = %v, want %v", clamped, want)
	}

	origin := n.PixelBounds(10, 10, false)
	if origin.RowStart != 5 || origin.ColStart != -5 {
		t.Errorf("unclamped origin = (%d, %d), want (5, -5)", origin.RowStart, origin.ColStart)
	}
	if origin.RowEnd != 12 {
		t.Errorf("unclamped RowEnd = %d, want 12", origin.RowEnd)
	}

	fRows, fCols := n.Footprint(10, 10)
	if fRows != 7 || fCols != 10 {
		t.Errorf("Footprint() = %dx%d, want 7x10", fRows, fCols)
	}
}

func TestBounds_Empty(t *testing.T) {
	outside := Normalized{X: 1.5, Y: 0.2, Right: 2, Top: 0.4}.PixelBounds(10, 10, true)
	if outside.Area() != 0 {
		t.Errorf("Area() of a quad right of the map = %d, want 0", outside.Area())
	}
	inverted := Bounds{RowStart: 5, RowEnd: 2, ColStart: 0, ColEnd: 3}
	if inverted.Rows() != 0 || inverted.Area() != 0 {
		t.Errorf("inverted bounds: Rows() = %d, Area() = %d", inverted.Rows(), inverted.Area())
	}
}

func TestPointToPixel(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantRow, col int
		wantErr      bool
	}{
		{"top left", 0, 1, 0, 0, false},
		{"bottom right", 1, 0, 9, 19, false},
		{"center", 0.5, 0.5, 5, 10, false},
		{"left of map", -0.1, 0.5, 0, 0, true},
		{"above map", 0.5, 1.01, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, err := PointToPixel(tt.x, tt.y, 10, 20)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Fatalf("PointToPixel() error = %v, want ErrOutOfBounds", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PointToPixel() error = %v", err)
			}
			if row != tt.wantRow || col != tt.col {
				t.Errorf("PointToPixel() = (%d, %d), want (%d, %d)", row, col, tt.wantRow, tt.col)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	view := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		q    Rect
		want bool
	}{
		{"inside", Rect{X: 2, Y: 2, Width: 1, Height: 1}, true},
		{"overhang", Rect{X: -5, Y: 8, Width: 6, Height: 6}, true},
		{"touching edge", Rect{X: 10, Y: 3, Width: 2, Height: 2}, true},
		{"left", Rect{X: -3, Y: 3, Width: 2, Height: 2}, false},
		{"above", Rect{X: 3, Y: 11, Width: 2, Height: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := view.Intersects(tt.q); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestPlacement_Quad(t *testing.T) {
	p := NewPlacement(Point{X: 50, Y: 40}, 20, 10)
	if got, want := p.Quad(), (Rect{X: 40, Y: 35, Width: 20, Height: 10}); got != want {
		t.Errorf("Quad() = %+v, want %+v", got, want)
	}

	turned := p.Rotate(90)
	if got, want := turned.Quad(), (Rect{X: 45, Y: 30, Width: 10, Height: 20}); got != want {
		t.Errorf("Quad() at 90 degrees = %+v, want %+v", got, want)
	}

	diag := p.Rotate(45).Quad()
	wantSide := 30 / math.Sqrt2
	if math.Abs(diag.Width-wantSide) > 1e-9 || math.Abs(diag.Height-wantSide) > 1e-9 {
		t.Errorf("Quad() at 45 degrees = %gx%g, want %gx%g", diag.Width, diag.Height, wantSide, wantSide)
	}

	big := p.Rescale(1).Translate(10, -10)
	if got, want := big.Quad(), (Rect{X: 40, Y: 20, Width: 40, Height: 20}); got != want {
		t.Errorf("Quad() scaled 2x = %+v, want %+v", got, want)
	}
}

func TestPlacement_RotateWraps(t *testing.T) {
	p := NewPlacement(Point{}, 1, 1).Rotate(-30).Rotate(-60)
	if p.Rotation != 270 {
		t.Errorf("Rotation = %g, want 270", p.Rotation)
	}
	if p.Rescale(-5).Scale != 0 {
		t.Errorf("Rescale below zero = %g, want 0", p.Rescale(-5).Scale)
	}
}
