// Package codec orchestrates the per-channel embed/extract pipeline:
// pixel transform, Haar DWT, block-grid geometry, the scrambler's two
// permutation streams, the block codec dispatched through a pool, and
// (on extract) cyclic-tiling/channel averaging (spec §4.5). Extract
// returns the real-valued averages; binarising them is left to callers. It is the component the teacher's embedChannelDwtDctSvd/
// detectChannelDwtDctSvd pair generalises into: three channels instead
// of one, a configurable block size instead of a fixed 4x4, a two-band
// quantiser, and a keyed intra-block shuffle.
package codec

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/ashgrove/blindwm/internal/blockcodec"
	"github.com/ashgrove/blindwm/internal/geometry"
	"github.com/ashgrove/blindwm/internal/pool"
	"github.com/ashgrove/blindwm/internal/scramble"
	"github.com/ashgrove/blindwm/internal/transform"
	"github.com/ashgrove/blindwm/internal/transform/dwt"
	"github.com/ashgrove/blindwm/internal/wmerr"
)

const yuvChannels = 3

// Keys carries the two integer seeds that drive the scrambler: ImgKey
// seeds the per-block intra-block coefficient shuffle (needed for both
// embed and extract), WmKey seeds the payload bit permutation.
type Keys struct {
	ImgKey int
	WmKey  int
}

// Tuning bundles the block codec's quantisation and block-geometry
// parameters.
type Tuning struct {
	D1          float64
	D2          float64
	BlockH      int
	BlockW      int
	PoolMode    pool.Mode
	PoolWorkers int
}

func (t Tuning) validate() error {
	if t.D1 <= 0 {
		return fmt.Errorf("%w: d1 must be > 0, got %v", wmerr.ErrInvalidParameter, t.D1)
	}
	if t.D2 < 0 {
		return fmt.Errorf("%w: d2 must be >= 0, got %v", wmerr.ErrInvalidParameter, t.D2)
	}
	if t.BlockH <= 0 || t.BlockW <= 0 {
		return fmt.Errorf("%w: block size must be positive, got %dx%d", wmerr.ErrInvalidParameter, t.BlockH, t.BlockW)
	}
	return nil
}

func (t Tuning) blockParams() blockcodec.Params {
	return blockcodec.Params{D1: t.D1, D2: t.D2}
}

type blockTask struct {
	block      [][]float64
	shuffleRow []int
}

// channelPlan holds one channel's working state through a single
// embed/extract call: its DWT subbands, block grid, and pre-padding size.
type channelPlan struct {
	ll, lh, hl, hh [][]float64
	grid           geometry.Grid
	origH, origW   int
}

func planChannel(plane [][]float64, blockH, blockW int) (channelPlan, error) {
	padded, origH, origW := transform.PadToEven(plane)
	ll, lh, hl, hh := dwt.Forward2D(padded)
	grid, err := geometry.NewGrid(len(ll), len(ll[0]), blockH, blockW)
	if err != nil {
		return channelPlan{}, err
	}
	return channelPlan{ll: ll, lh: lh, hl: hl, hh: hh, grid: grid, origH: origH, origW: origW}, nil
}

func extractBlock(plane [][]float64, row, col, bh, bw int) [][]float64 {
	block := make([][]float64, bh)
	for i := 0; i < bh; i++ {
		block[i] = append([]float64(nil), plane[row+i][col:col+bw]...)
	}
	return block
}

func putBlock(plane [][]float64, block [][]float64, row, col int) {
	for i, r := range block {
		copy(plane[row+i][col:col+len(r)], r)
	}
}

func logFootprint(h, w int) {
	// float64 plumbing carries roughly 4x the cover image (YUV planes
	// plus one LL copy per channel) for the duration of a call.
	footprint := uint64(h) * uint64(w) * 8 * 4
	slog.Debug("codec memory footprint estimate", "bytes", humanize.Bytes(footprint))
}

// Embed writes bits into cover, cycling the payload across the block
// grid, and returns the watermarked image. It fails with
// ErrWatermarkTooLarge when len(bits) >= the block count of any
// channel's grid.
func Embed(cover *image.NRGBA, bits []bool, keys Keys, tuning Tuning) (*image.NRGBA, error) {
	if err := tuning.validate(); err != nil {
		return nil, err
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("%w: empty payload", wmerr.ErrInvalidParameter)
	}

	b := cover.Bounds()
	logFootprint(b.Dy(), b.Dx())

	alpha, hasAlpha := transform.SplitAlpha(cover)
	yuv := transform.BGRToYUV(cover)
	planes := [yuvChannels][][]float64{yuv.Y, yuv.U, yuv.V}

	blockArea := tuning.BlockH * tuning.BlockW
	params := tuning.blockParams()

	// Permute the payload bit order before tiling; extract inverts this
	// with the same watermark-key permutation (spec §4.3/§4.5).
	payloadPerm := scramble.PayloadPermutation(keys.WmKey, len(bits))
	permutedBits := scramble.Apply(payloadPerm, bits)

	var outPlanes [yuvChannels][][]float64
	for c := 0; c < yuvChannels; c++ {
		plan, err := planChannel(planes[c], tuning.BlockH, tuning.BlockW)
		if err != nil {
			return nil, err
		}
		n := plan.grid.N()
		if len(bits) >= n {
			return nil, fmt.Errorf("%w: payload length %d >= block count %d", wmerr.ErrWatermarkTooLarge, len(bits), n)
		}

		shuffleTable := scramble.BlockShuffleTable(keys.ImgKey, n, blockArea)

		tasks := make([]blockTask, n)
		for i := 0; i < n; i++ {
			row, col := plan.grid.RowCol(i)
			tasks[i] = blockTask{
				block:      extractBlock(plan.ll, row*tuning.BlockH, col*tuning.BlockW, tuning.BlockH, tuning.BlockW),
				shuffleRow: shuffleTable[i],
			}
		}

		embedded := pool.Map(tuning.PoolMode, tuning.PoolWorkers, indices(n), func(i int) [][]float64 {
			bit := permutedBits[i%len(permutedBits)]
			return blockcodec.Embed(tasks[i].block, tasks[i].shuffleRow, bit, params)
		})

		llCopy := copyPlane(plan.ll)
		for i := 0; i < n; i++ {
			row, col := plan.grid.RowCol(i)
			putBlock(llCopy, embedded[i], row*tuning.BlockH, col*tuning.BlockW)
		}

		recon := dwt.Inverse2D(llCopy, plan.lh, plan.hl, plan.hh)
		outPlanes[c] = transform.TrimToOriginal(recon, plan.origH, plan.origW)
	}

	out := transform.YUVToBGR(transform.YUVPlanes{Y: outPlanes[0], U: outPlanes[1], V: outPlanes[2]})
	if hasAlpha {
		transform.MergeAlpha(out, alpha)
	}
	return out, nil
}

// Extract recovers the real-valued average estimate for each of the L
// payload positions from embedded, un-permuting with the watermark-key
// payload permutation before returning (spec §4.5 steps 1-5). Callers
// binarise the result themselves (k-means for text/bit mode, 0.5
// threshold for bitmap mode).
func Extract(embedded *image.NRGBA, l int, keys Keys, tuning Tuning) ([]float64, error) {
	if err := tuning.validate(); err != nil {
		return nil, err
	}
	if l <= 0 {
		return nil, fmt.Errorf("%w: payload length must be > 0", wmerr.ErrInvalidParameter)
	}

	b := embedded.Bounds()
	logFootprint(b.Dy(), b.Dx())

	yuv := transform.BGRToYUV(embedded)
	planes := [yuvChannels][][]float64{yuv.Y, yuv.U, yuv.V}

	blockArea := tuning.BlockH * tuning.BlockW
	params := tuning.blockParams()

	var raw [yuvChannels][]float64
	var n int
	for c := 0; c < yuvChannels; c++ {
		plan, err := planChannel(planes[c], tuning.BlockH, tuning.BlockW)
		if err != nil {
			return nil, err
		}
		n = plan.grid.N()

		shuffleTable := scramble.BlockShuffleTable(keys.ImgKey, n, blockArea)

		tasks := make([]blockTask, n)
		for i := 0; i < n; i++ {
			row, col := plan.grid.RowCol(i)
			tasks[i] = blockTask{
				block:      extractBlock(plan.ll, row*tuning.BlockH, col*tuning.BlockW, tuning.BlockH, tuning.BlockW),
				shuffleRow: shuffleTable[i],
			}
		}

		raw[c] = pool.Map(tuning.PoolMode, tuning.PoolWorkers, tasks, func(task blockTask) float64 {
			return blockcodec.Extract(task.block, task.shuffleRow, params)
		})
	}

	avg := averageAcrossCyclesAndChannels(raw, n, l)
	payloadPerm := scramble.PayloadPermutation(keys.WmKey, l)
	return unpermuteFloats(avg, payloadPerm), nil
}

// averageAcrossCyclesAndChannels implements extract_avg: the payload bit
// at position j is the mean of raw[c,i] over all channels c and all
// block indices i with i mod L == j. When N < L the cyclic tiling never
// completed a single pass: each position j < N has exactly one
// contributing block and gets the mean over channels only, and
// positions j >= N have no block and are left at 0.
//
// When N >= L, spec §9 Open Question (a) preserves the source's uneven
// remainder weighting verbatim: positions before the remainder boundary
// receive one extra partial-cycle sample blended in at weight
// 1/(cycles+1), so they carry marginally less noise than positions at
// or past it — documented here rather than "fixed", per the spec's
// explicit decision to keep the original behaviour.
func averageAcrossCyclesAndChannels(raw [yuvChannels][]float64, n, l int) []float64 {
	avg := make([]float64, l)
	if n < l {
		for j := 0; j < l; j++ {
			if j >= n {
				continue
			}
			var sum float64
			for c := 0; c < yuvChannels; c++ {
				sum += raw[c][j]
			}
			avg[j] = sum / yuvChannels
		}
		return avg
	}

	cycles := n / l
	remainder := n % l

	for j := 0; j < l; j++ {
		var sum float64
		count := 0
		for cyc := 0; cyc < cycles; cyc++ {
			i := cyc*l + j
			for c := 0; c < yuvChannels; c++ {
				sum += raw[c][i]
			}
			count += yuvChannels
		}
		avg[j] = sum / float64(count)
	}

	if remainder > 0 {
		for j := 0; j < remainder; j++ {
			i := cycles*l + j
			var sum float64
			for c := 0; c < yuvChannels; c++ {
				sum += raw[c][i]
			}
			remMean := sum / yuvChannels
			avg[j] = (avg[j]*float64(cycles) + remMean) / float64(cycles+1)
		}
	}

	return avg
}

func unpermuteFloats(v []float64, perm []int) []float64 {
	inv := scramble.Invert(perm)
	out := make([]float64, len(v))
	for i, p := range inv {
		out[i] = v[p]
	}
	return out
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func copyPlane(p [][]float64) [][]float64 {
	out := make([][]float64, len(p))
	for i, row := range p {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
