// Package transform implements the pixel-level plumbing the codec
// orchestrator needs before and after the per-channel DWT-DCT-SVD
// pipeline: BGR/YUV conversion, even-dimension padding, uint8 clamping,
// and alpha split/merge (spec §4.1). The coefficients mirror the
// teacher's OpenCV-compatible full-range YUV conversion.
package transform

import (
	"image"
	"math"
)

// YUVPlanes holds one image's three channels as independent float64
// planes, row-major, dimensions (h, w).
type YUVPlanes struct {
	Y, U, V [][]float64
}

func newPlane(h, w int) [][]float64 {
	p := make([][]float64, h)
	for y := range p {
		p[y] = make([]float64, w)
	}
	return p
}

// SplitAlpha extracts an RGBA image's alpha plane and reports whether it
// carries information worth preserving: per spec §3 "alpha plane (if
// present and <255 anywhere) is detached before coding, reattached
// after", otherwise the fourth channel is dropped entirely.
func SplitAlpha(img *image.NRGBA) (alpha [][]uint8, present bool) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	alpha = make([][]uint8, h)
	present = false
	for y := 0; y < h; y++ {
		alpha[y] = make([]uint8, w)
		for x := 0; x < w; x++ {
			off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			a := img.Pix[off+3]
			alpha[y][x] = a
			if a < 255 {
				present = true
			}
		}
	}
	return alpha, present
}

// MergeAlpha writes an alpha plane back into an RGBA image's fourth
// channel, overwriting whatever coding left there.
func MergeAlpha(img *image.NRGBA, alpha [][]uint8) {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			img.Pix[off+3] = alpha[y][x]
		}
	}
}

// BGRToYUV converts an RGBA image's (R,G,B) planes to full-range YUV
// float64 planes. NRGBA pixels are stored R,G,B, and each channel gets
// its own coefficient, so the result equals OpenCV's COLOR_BGR2YUV
// applied to the same picture stored in B,G,R order.
func BGRToYUV(img *image.NRGBA) YUVPlanes {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	out := YUVPlanes{Y: newPlane(h, w), U: newPlane(h, w), V: newPlane(h, w)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r := float64(img.Pix[off])
			g := float64(img.Pix[off+1])
			bl := float64(img.Pix[off+2])

			out.Y[y][x] = 0.299*r + 0.587*g + 0.114*bl
			out.U[y][x] = -0.14713*r - 0.28886*g + 0.436*bl + 128.0
			out.V[y][x] = 0.615*r - 0.51499*g - 0.10001*bl + 128.0
		}
	}
	return out
}

// YUVToBGR converts YUV float64 planes back to an RGBA image, clamping
// each channel to uint8 range and setting alpha to 255 (callers
// reattach a preserved alpha plane separately via MergeAlpha).
func YUVToBGR(p YUVPlanes) *image.NRGBA {
	h := len(p.Y)
	w := 0
	if h > 0 {
		w = len(p.Y[0])
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yv := p.Y[y][x]
			uv := p.U[y][x]
			vv := p.V[y][x]

			r := yv + 1.13983*(vv-128.0)
			g := yv - 0.39465*(uv-128.0) - 0.58060*(vv-128.0)
			bl := yv + 2.03211*(uv-128.0)

			off := img.PixOffset(x, y)
			img.Pix[off] = ClampUint8(r)
			img.Pix[off+1] = ClampUint8(g)
			img.Pix[off+2] = ClampUint8(bl)
			img.Pix[off+3] = 255
		}
	}
	return img
}

// ClampUint8 clips v to [0,255] and rounds to nearest, matching the
// reference codec's clamp_uint8.
func ClampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// PadToEven appends at most one zero row and one zero column so both
// dimensions are even, a requirement of the single-level Haar DWT. It
// returns the padded plane and the original (h, w) so callers can trim
// back after the inverse transform.
func PadToEven(plane [][]float64) (padded [][]float64, origH, origW int) {
	h := len(plane)
	w := 0
	if h > 0 {
		w = len(plane[0])
	}
	ph, pw := h, w
	if ph%2 != 0 {
		ph++
	}
	if pw%2 != 0 {
		pw++
	}
	if ph == h && pw == w {
		return plane, h, w
	}
	out := newPlane(ph, pw)
	for y := 0; y < h; y++ {
		copy(out[y], plane[y])
	}
	return out, h, w
}

// TrimToOriginal removes even-padding added by PadToEven, returning the
// top-left (origH, origW) rectangle.
func TrimToOriginal(plane [][]float64, origH, origW int) [][]float64 {
	if len(plane) == origH && (origH == 0 || len(plane[0]) == origW) {
		return plane
	}
	out := make([][]float64, origH)
	for y := 0; y < origH; y++ {
		out[y] = append([]float64(nil), plane[y][:origW]...)
	}
	return out
}
