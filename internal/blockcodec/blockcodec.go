// Package blockcodec implements the single-block embed/extract primitive:
// forward DCT, optional intra-block coefficient shuffle, SVD, singular
// value quantisation to carry one bit, and the inverse transforms (spec
// §4.4). It is pure and retains no state across calls, mirroring the
// teacher's embedBlockDctSvd/inferBlockDctSvd pair generalised from a
// fixed single-band scale to the two-band (d1,d2) quantiser the
// specification requires.
package blockcodec

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ashgrove/blindwm/internal/scramble"
	"github.com/ashgrove/blindwm/internal/transform/dct"
)

// Params holds the quantisation step sizes for the primary and secondary
// singular values. D2 <= 0 disables the secondary band ("fast mode",
// spec §9 Open Question (c): treated as a first-class mode here).
type Params struct {
	D1 float64
	D2 float64
}

// FastMode reports whether the secondary singular value is quantised.
func (p Params) FastMode() bool { return p.D2 <= 0 }

func flatten(block [][]float64) []float64 {
	n := len(block)
	out := make([]float64, 0, n*n)
	for _, row := range block {
		out = append(out, row...)
	}
	return out
}

func unflatten(flat []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = append([]float64(nil), flat[i*n:(i+1)*n]...)
	}
	return out
}

func svdOf(flat []float64, n int) (u, v *mat.Dense, s []float64) {
	m := mat.NewDense(n, n, flat)
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		// Factorize only fails on malformed input shapes; blocks are
		// always square n x n, so fall back to an all-zero spectrum
		// rather than panic on a degenerate (e.g. all-zero) block.
		s = make([]float64, n)
		u = mat.NewDense(n, n, nil)
		v = mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			u.Set(i, i, 1)
			v.Set(i, i, 1)
		}
		return u, v, s
	}
	s = svd.Values(nil)
	u = &mat.Dense{}
	v = &mat.Dense{}
	svd.UTo(u)
	svd.VTo(v)
	return u, v, s
}

func reconstruct(u, v *mat.Dense, s []float64, n int) [][]float64 {
	diagS := mat.NewDiagDense(n, s)
	var tmp, result mat.Dense
	tmp.Mul(u, diagS)
	result.Mul(&tmp, v.T())

	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = result.At(i, j)
		}
	}
	return out
}

func quantiseEmbed(v, step float64, bit bool) float64 {
	b := 0.0
	if bit {
		b = 1.0
	}
	return (math.Floor(v/step) + 0.25 + 0.5*b) * step
}

func quantiseExtract(v, step float64) bool {
	m := math.Mod(v, step)
	if m < 0 {
		m += step
	}
	return m > step/2
}

// Embed quantises the singular value spectrum of block to carry bit,
// optionally permuting coefficients by shuffleRow before the SVD and
// un-permuting (by scatter) afterward, and returns the spatial-domain
// block to write back into the LL sub-band.
func Embed(block [][]float64, shuffleRow []int, bit bool, p Params) [][]float64 {
	n := len(block)
	b := dct.Forward2D(block)
	flat := flatten(b)
	if shuffleRow != nil {
		flat = scramble.Gather(shuffleRow, flat)
	}

	u, v, s := svdOf(flat, n)

	s[0] = quantiseEmbed(s[0], p.D1, bit)
	if !p.FastMode() && len(s) > 1 {
		s[1] = quantiseEmbed(s[1], p.D2, bit)
	}

	rec := reconstruct(u, v, s, n)
	flatRec := flatten(rec)
	if shuffleRow != nil {
		flatRec = scramble.Scatter(shuffleRow, flatRec)
	}
	return dct.Inverse2D(unflatten(flatRec, n))
}

// Extract reads the fractional bit estimate from block in [0,1]: `(3*v1
// + v2)/4` when both bands are quantised, or `v1` alone in fast mode
// (spec §4.4).
func Extract(block [][]float64, shuffleRow []int, p Params) float64 {
	n := len(block)
	b := dct.Forward2D(block)
	flat := flatten(b)
	if shuffleRow != nil {
		flat = scramble.Gather(shuffleRow, flat)
	}

	_, _, s := svdOf(flat, n)

	v1 := 0.0
	if quantiseExtract(s[0], p.D1) {
		v1 = 1.0
	}
	if p.FastMode() {
		return v1
	}
	v2 := 0.0
	if len(s) > 1 && quantiseExtract(s[1], p.D2) {
		v2 = 1.0
	}
	return (3*v1 + v2) / 4
}
