// Package recover implements template-matching recovery: estimating the
// crop box and scale factor a geometric attack applied to an embedded
// image, then repainting a template back into its original canvas (spec
// §4.7). The reference implementation's global, version-keyed
// functools.lru_cache is replaced here with an explicit Engine holding
// a bounded LRU keyed by (idx, w, h), per spec §9's "no cyclic
// ownership" design note: state lives on an object, not a package-level
// global.
package recover

import (
	"image"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

// Box is a crop rectangle in the original image's coordinate space.
type Box struct {
	X1, Y1, X2, Y2 int
}

// Width and Height report the box's pixel dimensions.
func (b Box) Width() int  { return b.X2 - b.X1 }
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Result is the outcome of a crop/scale estimation.
type Result struct {
	Box           Box
	OriginalShape [2]int // height, width
	Score         float64
	Scale         float64
}

type cacheKey struct {
	idx  int
	w, h int
}

// Engine holds the resized-template cache across repeated scale-sweep
// lookups within one EstimateCrop call, and across calls (bounded, so
// old entries evict rather than growing without limit).
type Engine struct {
	cache *lru.Cache[cacheKey, *image.Gray]
	idx   int
}

// NewEngine returns a recovery Engine with a bounded LRU cache of the
// given capacity (resized templates are a few hundred KB each; a
// capacity in the low hundreds comfortably covers a two-phase sweep).
func NewEngine(cacheSize int) (*Engine, error) {
	c, err := lru.New[cacheKey, *image.Gray](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{cache: c}, nil
}

func (e *Engine) resizedTemplate(template *image.Gray, w, h int) *image.Gray {
	key := cacheKey{idx: e.idx, w: w, h: h}
	if img, ok := e.cache.Get(key); ok {
		return img
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), template, template.Bounds(), draw.Over, nil)
	e.cache.Add(key, out)
	return out
}

func toFloatPlane(img *image.Gray) [][]float64 {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	plane := make([][]float64, h)
	for y := 0; y < h; y++ {
		plane[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			plane[y][x] = float64(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return plane
}

type scaleResult struct {
	loc   image.Point
	score float64
	scale float64
}

// matchNormalizedCrossCorrelation slides template over image and
// returns the top-left location of the best match and its score, using
// the same normalisation as OpenCV's TM_CCOEFF_NORMED: both the image
// patch and the template are mean-centred before correlating.
func matchNormalizedCrossCorrelation(img [][]float64, template *image.Gray) (image.Point, float64) {
	imgH, imgW := len(img), 0
	if imgH > 0 {
		imgW = len(img[0])
	}
	tb := template.Bounds()
	th, tw := tb.Dy(), tb.Dx()

	if th > imgH || tw > imgW || th == 0 || tw == 0 {
		return image.Point{}, math.Inf(-1)
	}

	tPlane := toFloatPlane(template)
	var tMean float64
	for _, row := range tPlane {
		for _, v := range row {
			tMean += v
		}
	}
	tMean /= float64(th * tw)

	tNorm := make([][]float64, th)
	var sumT2 float64
	for y := 0; y < th; y++ {
		tNorm[y] = make([]float64, tw)
		for x := 0; x < tw; x++ {
			d := tPlane[y][x] - tMean
			tNorm[y][x] = d
			sumT2 += d * d
		}
	}

	bestScore := math.Inf(-1)
	bestLoc := image.Point{}

	for y := 0; y+th <= imgH; y++ {
		for x := 0; x+tw <= imgW; x++ {
			var patchSum, patchSum2, numerator float64
			for dy := 0; dy < th; dy++ {
				row := img[y+dy]
				for dx := 0; dx < tw; dx++ {
					v := row[x+dx]
					patchSum += v
					patchSum2 += v * v
				}
			}
			patchMean := patchSum / float64(th*tw)
			for dy := 0; dy < th; dy++ {
				row := img[y+dy]
				for dx := 0; dx < tw; dx++ {
					numerator += (row[x+dx] - patchMean) * tNorm[dy][dx]
				}
			}
			sumI2 := patchSum2 - patchMean*patchMean*float64(th*tw)
			denom := math.Sqrt(sumI2 * sumT2)
			score := 0.0
			if denom > 1e-12 {
				score = numerator / denom
			}
			if score > bestScore {
				bestScore = score
				bestLoc = image.Point{X: x, Y: y}
			}
		}
	}
	return bestLoc, bestScore
}

func linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}

// EstimateCrop finds the scale and crop box of template within original
// via a two-phase coarse-to-fine search over scaleRange, refining the
// search window around the best coarse match (spec §4.7). A fresh call
// bumps the engine's cache generation so stale resized templates from a
// previous (original, template) pair are never reused.
func (e *Engine) EstimateCrop(original, template *image.Gray, scaleMin, scaleMax float64, searchSteps int) Result {
	e.idx++

	oriPlane := toFloatPlane(original)
	oriH, oriW := len(oriPlane), len(oriPlane[0])
	tb := template.Bounds()
	temH, temW := tb.Dy(), tb.Dx()

	maxScale := math.Min(scaleMax, math.Min(float64(oriH)/float64(temH), float64(oriW)/float64(temW)))
	minScale := scaleMin
	if minScale > maxScale {
		minScale = maxScale
	}

	var results []scaleResult

	if scaleMin == 1 && scaleMax == 1 {
		loc, score := matchNormalizedCrossCorrelation(oriPlane, template)
		results = append(results, scaleResult{loc: loc, score: score, scale: 1.0})
	} else {
		steps := searchSteps
		lo, hi := minScale, maxScale
		bestIdx := 0
		for iteration := 0; iteration < 2; iteration++ {
			scales := linspace(lo, hi, steps)
			for _, s := range scales {
				w := int(math.Round(float64(temW) * s))
				h := int(math.Round(float64(temH) * s))
				if w < 1 || h < 1 || w > oriW || h > oriH {
					results = append(results, scaleResult{score: math.Inf(-1), scale: s})
					continue
				}
				resized := e.resizedTemplate(template, w, h)
				loc, score := matchNormalizedCrossCorrelation(oriPlane, resized)
				results = append(results, scaleResult{loc: loc, score: score, scale: s})
			}

			bestIdx = 0
			for i, r := range results {
				if r.score > results[bestIdx].score {
					bestIdx = i
				}
			}

			loIdx := bestIdx - 1
			if loIdx < 0 {
				loIdx = 0
			}
			hiIdx := bestIdx + 1
			if hiIdx > len(results)-1 {
				hiIdx = len(results) - 1
			}
			lo = results[loIdx].scale
			hi = results[hiIdx].scale
			span := hi - lo
			maxDim := math.Max(float64(temW), float64(temH))
			steps = 2*int(span*maxDim) + 1
		}
	}

	bestIdx := 0
	for i, r := range results {
		if r.score > results[bestIdx].score {
			bestIdx = i
		}
	}
	best := results[bestIdx]

	width := int(float64(temW) * best.scale)
	height := int(float64(temH) * best.scale)
	box := Box{X1: best.loc.X, Y1: best.loc.Y, X2: best.loc.X + width, Y2: best.loc.Y + height}

	return Result{
		Box:           box,
		OriginalShape: [2]int{oriH, oriW},
		Score:         best.score,
		Scale:         best.scale,
	}
}

// RecoverCrop paints template (resized to fit box) into a zero-filled
// canvas of outShape, at box's position, undoing a crop+scale attack
// before re-running extraction (spec §4.7).
func RecoverCrop(template image.Image, box Box, outShape [2]int) *image.NRGBA {
	height, width := outShape[0], outShape[1]
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	dstRect := image.Rect(box.X1, box.Y1, box.X2, box.Y2).Intersect(canvas.Bounds())
	if dstRect.Empty() {
		return canvas
	}
	draw.CatmullRom.Scale(canvas, dstRect, template, template.Bounds(), draw.Src, nil)
	return canvas
}
