package blockcodec_test

import (
	"math/rand"
	"testing"

	"github.com/ashgrove/blindwm/internal/blockcodec"
)

func randomBlock(n int, rng *rand.Rand) [][]float64 {
	b := make([][]float64, n)
	for i := range b {
		b[i] = make([]float64, n)
		for j := range b[i] {
			b[i][j] = rng.Float64()*255.0 - 128.0
		}
	}
	return b
}

func identityShuffle(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestEmbedExtractRoundTripFull(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	params := blockcodec.Params{D1: 36, D2: 20}
	shuffle := identityShuffle(16)

	for trial := 0; trial < 20; trial++ {
		block := randomBlock(4, rng)
		bit := trial%2 == 0

		embedded := blockcodec.Embed(block, shuffle, bit, params)
		got := blockcodec.Extract(embedded, shuffle, params)

		recoveredBit := got > 0.5
		if recoveredBit != bit {
			t.Errorf("trial %d: recovered bit %v, want %v (score=%v)", trial, recoveredBit, bit, got)
		}
	}
}

func TestEmbedExtractRoundTripFastMode(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	params := blockcodec.Params{D1: 36, D2: 0}
	shuffle := identityShuffle(16)

	for trial := 0; trial < 20; trial++ {
		block := randomBlock(4, rng)
		bit := trial%2 == 0

		embedded := blockcodec.Embed(block, shuffle, bit, params)
		got := blockcodec.Extract(embedded, shuffle, params)

		recoveredBit := got > 0.5
		if recoveredBit != bit {
			t.Errorf("fast-mode trial %d: recovered bit %v, want %v (score=%v)", trial, recoveredBit, bit, got)
		}
	}
}

func TestEmbedExtractWithShuffledPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	params := blockcodec.Params{D1: 36, D2: 20}
	// A genuine (non-identity) permutation of 16 indices.
	shuffle := []int{5, 2, 9, 0, 14, 3, 11, 7, 1, 12, 6, 15, 8, 4, 10, 13}

	for trial := 0; trial < 20; trial++ {
		block := randomBlock(4, rng)
		bit := trial%2 == 0

		embedded := blockcodec.Embed(block, shuffle, bit, params)
		got := blockcodec.Extract(embedded, shuffle, params)

		recoveredBit := got > 0.5
		if recoveredBit != bit {
			t.Errorf("shuffled trial %d: recovered bit %v, want %v (score=%v)", trial, recoveredBit, bit, got)
		}
	}
}

func TestFastModeDetection(t *testing.T) {
	p1 := blockcodec.Params{D1: 36, D2: 0}
	if !p1.FastMode() {
		t.Error("D2=0 should report FastMode true")
	}
	p2 := blockcodec.Params{D1: 36, D2: 20}
	if p2.FastMode() {
		t.Error("D2=20 should report FastMode false")
	}
}
