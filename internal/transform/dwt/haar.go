// Package dwt implements the single-level 2D Haar wavelet transform the
// codec runs each color channel through before the block grid is laid
// over its LL subband (spec §4.2). The 1D step/unstep pair is applied
// to rows and columns through a shared transpose-based mapper rather
// than duplicating the column-extraction loop for both directions.
package dwt

// haarStep computes one forward Haar butterfly for a pair of adjacent
// samples: their average and their half-difference.
func haarStep(a, b float64) (avg, diff float64) {
	return (a + b) / 2.0, (a - b) / 2.0
}

// haarUnstep inverts haarStep.
func haarUnstep(avg, diff float64) (a, b float64) {
	return avg + diff, avg - diff
}

// forwardRow transforms one row of even length n into [avg0..avgN/2-1,
// diff0..diffN/2-1] via repeated haarStep.
func forwardRow(src []float64) []float64 {
	n := len(src)
	half := n / 2
	out := make([]float64, n)
	for i := 0; i < half; i++ {
		out[i], out[half+i] = haarStep(src[2*i], src[2*i+1])
	}
	return out
}

// inverseRow reverses forwardRow.
func inverseRow(src []float64) []float64 {
	n := len(src)
	half := n / 2
	out := make([]float64, n)
	for i := 0; i < half; i++ {
		out[2*i], out[2*i+1] = haarUnstep(src[i], src[half+i])
	}
	return out
}

// mapRows applies fn independently to every row of m.
func mapRows(m [][]float64, fn func([]float64) []float64) [][]float64 {
	out := make([][]float64, len(m))
	for y, row := range m {
		out[y] = fn(row)
	}
	return out
}

// mapCols applies fn independently to every column of m by transposing,
// mapping rows, and transposing back — the same butterfly used for rows
// works unchanged once the axis is swapped.
func mapCols(m [][]float64, fn func([]float64) []float64) [][]float64 {
	return transpose(mapRows(transpose(m), fn))
}

func transpose(m [][]float64) [][]float64 {
	rows := len(m)
	cols := 0
	if rows > 0 {
		cols = len(m[0])
	}
	out := make([][]float64, cols)
	for x := 0; x < cols; x++ {
		out[x] = make([]float64, rows)
		for y := 0; y < rows; y++ {
			out[x][y] = m[y][x]
		}
	}
	return out
}

func makeGrid(rows, cols int) [][]float64 {
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}

// Forward2D applies a single-level 2D Haar DWT to src, which must have
// even dimensions (h rows, w cols). It returns the four subbands LL,
// LH, HL, HH, each (h/2)x(w/2), laid out in the transform domain as:
//
//	[ LL | LH ]
//	[ HL | HH ]
func Forward2D(src [][]float64) (ll, lh, hl, hh [][]float64) {
	h := len(src)
	w := 0
	if h > 0 {
		w = len(src[0])
	}
	halfH, halfW := h/2, w/2

	rowTrans := mapRows(src, forwardRow)
	full := mapCols(rowTrans, forwardRow)

	ll = makeGrid(halfH, halfW)
	lh = makeGrid(halfH, halfW)
	hl = makeGrid(halfH, halfW)
	hh = makeGrid(halfH, halfW)
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			ll[y][x] = full[y][x]
			lh[y][x] = full[y][halfW+x]
			hl[y][x] = full[halfH+y][x]
			hh[y][x] = full[halfH+y][halfW+x]
		}
	}
	return ll, lh, hl, hh
}

// Inverse2D reconstructs the (h, w) coefficient plane from the four
// subbands Forward2D produced.
func Inverse2D(ll, lh, hl, hh [][]float64) [][]float64 {
	halfH := len(ll)
	halfW := 0
	if halfH > 0 {
		halfW = len(ll[0])
	}
	h, w := halfH*2, halfW*2

	full := makeGrid(h, w)
	for y := 0; y < halfH; y++ {
		for x := 0; x < halfW; x++ {
			full[y][x] = ll[y][x]
			full[y][halfW+x] = lh[y][x]
			full[halfH+y][x] = hl[y][x]
			full[halfH+y][halfW+x] = hh[y][x]
		}
	}

	colInv := mapCols(full, inverseRow)
	return mapRows(colInv, inverseRow)
}
