package geometry

import (
	"errors"
	"testing"

	"github.com/ashgrove/blindwm/internal/wmerr"
)

func TestNewGridComputesBlockCount(t *testing.T) {
	g, err := NewGrid(64, 32, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows != 16 || g.Cols != 8 {
		t.Fatalf("got rows=%d cols=%d, want rows=16 cols=8", g.Rows, g.Cols)
	}
	if g.N() != 128 {
		t.Fatalf("N() = %d, want 128", g.N())
	}
}

func TestNewGridDropsRemainder(t *testing.T) {
	g, err := NewGrid(10, 10, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows != 2 || g.Cols != 2 {
		t.Fatalf("got rows=%d cols=%d, want rows=2 cols=2", g.Rows, g.Cols)
	}
	if g.UsableHeight() != 8 || g.UsableWidth() != 8 {
		t.Fatalf("usable = %dx%d, want 8x8", g.UsableHeight(), g.UsableWidth())
	}
}

func TestNewGridTooSmall(t *testing.T) {
	_, err := NewGrid(2, 64, 4, 4)
	if !errors.Is(err, wmerr.ErrImageTooSmall) {
		t.Fatalf("err = %v, want ErrImageTooSmall", err)
	}
}

func TestRowColRoundTrip(t *testing.T) {
	g, err := NewGrid(16, 16, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < g.N(); i++ {
		row, col := g.RowCol(i)
		if row*g.Cols+col != i {
			t.Fatalf("RowCol(%d) = (%d,%d) does not invert to %d", i, row, col, i)
		}
	}
}
