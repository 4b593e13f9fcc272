// Package dct implements the blockwise orthonormal type-II/III DCT the
// block codec runs each coefficient block through before its SVD (spec
// §4.4). Rather than recomputing the cosine sum per call, the 1D basis
// is built once per block size into an orthonormal matrix and the 2D
// transform is two matrix multiplications — the same linear-algebra
// idiom `internal/blockcodec` already leans on gonum for with its SVD.
package dct

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// basis returns the n x n orthonormal type-II DCT matrix C, where
// C[k][i] = scale(k) * cos(pi * k * (2i+1) / (2n)), scale(0) = sqrt(1/n),
// scale(k>0) = sqrt(2/n). Because C is orthonormal, C transposed is its
// own inverse (the type-III DCT).
func basis(n int) *mat.Dense {
	basisCacheMu.Lock()
	defer basisCacheMu.Unlock()
	if b, ok := basisCache[n]; ok {
		return b
	}
	scale0 := math.Sqrt(1.0 / float64(n))
	scaleK := math.Sqrt(2.0 / float64(n))
	data := make([]float64, n*n)
	for k := 0; k < n; k++ {
		scale := scaleK
		if k == 0 {
			scale = scale0
		}
		for i := 0; i < n; i++ {
			data[k*n+i] = scale * math.Cos(math.Pi*float64(k)*float64(2*i+1)/(2*float64(n)))
		}
	}
	b := mat.NewDense(n, n, data)
	basisCache[n] = b
	return b
}

var (
	basisCacheMu sync.Mutex
	basisCache   = map[int]*mat.Dense{}
)

func toDense(block [][]float64) *mat.Dense {
	rows := len(block)
	cols := 0
	if rows > 0 {
		cols = len(block[0])
	}
	data := make([]float64, 0, rows*cols)
	for _, row := range block {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

func toSlices(m mat.Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Forward2D applies the separable 2D type-II DCT to block via
// C_rows * block * C_cols^T. Block need not be square; each axis is
// transformed with the basis matrix sized to that axis's length.
func Forward2D(block [][]float64) [][]float64 {
	rows := len(block)
	cols := 0
	if rows > 0 {
		cols = len(block[0])
	}
	m := toDense(block)

	var tmp, out mat.Dense
	tmp.Mul(basis(rows), m)
	out.Mul(&tmp, basis(cols).T())
	return toSlices(&out)
}

// Inverse2D applies the 2D type-III DCT (the orthonormal inverse of
// Forward2D) via C_rows^T * block * C_cols.
func Inverse2D(block [][]float64) [][]float64 {
	rows := len(block)
	cols := 0
	if rows > 0 {
		cols = len(block[0])
	}
	m := toDense(block)

	var tmp, out mat.Dense
	tmp.Mul(basis(rows).T(), m)
	out.Mul(&tmp, basis(cols))
	return toSlices(&out)
}
