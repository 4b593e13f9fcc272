// Package geometry computes the non-overlapping block grid over a DWT
// subband and the stable linear block index the scrambler and codec key
// against (spec §4.2).
package geometry

import "fmt"

// Grid describes the block layout over a (subbandH, subbandW) region.
type Grid struct {
	Rows, Cols int // number of blocks along each axis
	BlockH     int
	BlockW     int
}

// N is the total block count.
func (g Grid) N() int { return g.Rows * g.Cols }

// UsableHeight and UsableWidth are the top-left rectangle of the subband
// that is actually covered by whole blocks; the remainder is kept
// verbatim but never coded.
func (g Grid) UsableHeight() int { return g.Rows * g.BlockH }
func (g Grid) UsableWidth() int  { return g.Cols * g.BlockW }

// RowCol maps a linear block index to its (row, col) position, row-major:
// i -> (i / cols, i % cols). This ordering is the contract the scrambler's
// block shuffle table is keyed against.
func (g Grid) RowCol(i int) (row, col int) {
	return i / g.Cols, i % g.Cols
}

// NewGrid computes the block grid for a subband of shape (subbandH,
// subbandW) given a block size (blockH, blockW). It fails with
// ImageTooSmall when either axis yields zero blocks.
func NewGrid(subbandH, subbandW, blockH, blockW int) (Grid, error) {
	if blockH <= 0 || blockW <= 0 {
		return Grid{}, fmt.Errorf("geometry: invalid block size %dx%d", blockH, blockW)
	}
	g := Grid{
		Rows:   subbandH / blockH,
		Cols:   subbandW / blockW,
		BlockH: blockH,
		BlockW: blockW,
	}
	if g.Rows == 0 || g.Cols == 0 {
		return Grid{}, errImageTooSmall(subbandH, subbandW, blockH, blockW)
	}
	return g, nil
}
