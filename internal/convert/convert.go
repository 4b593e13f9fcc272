// Package convert implements the three payload encodings the codec's
// bits[] boundary accepts: UTF-8 text, grayscale bitmap, and raw bit
// arrays (spec §6). None of these touch the codec itself; they convert
// external representations to and from the []bool the codec core
// consumes.
package convert

import (
	"image"
	"image/color"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ashgrove/blindwm/internal/kmeans"
)

// bitmapThreshold matches the reference codec's grayscale binarisation
// cutoff for bitmap-mode payloads (spec §6 "load grayscale, threshold
// at 128").
const bitmapThreshold = 128

// TextToBits encodes a UTF-8 string as its big-endian integer value
// rendered in binary digits. Leading zero bits are lost by
// construction (spec §9 Open Question (b)): the caller must persist the
// original bit length L out-of-band to decode correctly.
func TextToBits(s string) []bool {
	if s == "" {
		return nil
	}
	bi := new(big.Int).SetBytes([]byte(s))
	digits := bi.Text(2)
	bits := make([]bool, len(digits))
	for i, d := range digits {
		bits[i] = d == '1'
	}
	return bits
}

// BitsToText decodes a bit vector back to a UTF-8 string: left-pads the
// bit string to a multiple of 8, regroups into bytes, then decodes with
// replacement for any invalid UTF-8 sequences (spec §6).
func BitsToText(bits []bool) string {
	if len(bits) == 0 {
		return ""
	}
	padLen := (8 - len(bits)%8) % 8
	total := padLen + len(bits)

	raw := make([]byte, total/8)
	for i := 0; i < total; i++ {
		var bit bool
		if i >= padLen {
			bit = bits[i-padLen]
		}
		if bit {
			raw[i/8] |= 1 << uint(7-(i%8))
		}
	}
	return decodeUTF8Replace(raw)
}

func decodeUTF8Replace(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// BitmapToBits loads a grayscale image, thresholds it at 128, and
// flattens it row-major. The shape is the caller's responsibility to
// remember for BitsToBitmap.
func BitmapToBits(img *image.Gray) []bool {
	b := img.Bounds()
	bits := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			bits = append(bits, img.GrayAt(x, y).Y > bitmapThreshold)
		}
	}
	return bits
}

// BitsToBitmap reconstructs a grayscale image from a flattened bit
// vector and a (height, width) shape, writing 255 for true and 0 for
// false.
func BitsToBitmap(bits []bool, shape [2]int) *image.Gray {
	h, w := shape[0], shape[1]
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, bit := range bits {
		if i >= h*w {
			break
		}
		y, x := i/w, i%w
		v := uint8(0)
		if bit {
			v = 255
		}
		img.SetGray(x, y, color.Gray{Y: v})
	}
	return img
}

// BinarizeBitmap thresholds a raw extracted vector at 0.5 for bitmap
// mode, as opposed to text/bit mode's k-means binariser (spec §4.5 step
// 6).
func BinarizeBitmap(avg []float64) []bool {
	bits := make([]bool, len(avg))
	for i, v := range avg {
		bits[i] = v >= 0.5
	}
	return bits
}

// BinarizeText runs the 1-D k-means binariser used for text/bit mode
// extraction (spec §4.5 step 6, §4.6).
func BinarizeText(avg []float64) []bool {
	return kmeans.Binarize(avg)
}
