package scramble

// Invert returns the inverse of permutation perm: the array inv such that
// applying perm then inv (or inv then perm) is the identity.
func Invert(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Apply returns a new slice with x reordered by perm: out[i] = x[perm[i]]
// (a gather).
func Apply(perm []int, x []bool) []bool {
	out := make([]bool, len(x))
	for i, p := range perm {
		out[i] = x[p]
	}
	return out
}

// Scatter writes src into dst according to perm: dst[perm[i]] = src[i].
// This is the scatter direction the block codec's inverse intra-block
// permutation uses (spec §4.4: "the inverse permutation is scatter, not
// gather"); embed and extract must agree on direction or bits are lost.
func Scatter(perm []int, src []float64) []float64 {
	dst := make([]float64, len(src))
	for i, p := range perm {
		dst[p] = src[i]
	}
	return dst
}

// Gather returns a new slice with src reordered by perm: out[i] = src[perm[i]].
func Gather(perm []int, src []float64) []float64 {
	out := make([]float64, len(src))
	for i, p := range perm {
		out[i] = src[p]
	}
	return out
}
