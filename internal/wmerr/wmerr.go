// Package wmerr defines the error taxonomy raised by the watermark codec.
//
// Every sentinel below is caller-facing: construct a wrapped error with
// fmt.Errorf("...: %w", ErrX, ...) and let callers test with errors.Is.
// None of these are ever panicked; they surface synchronously from the
// call that detected them.
package wmerr

import "errors"

var (
	// ErrInvalidMode is returned when a payload mode string is not one of
	// "text", "bitmap", "bits".
	ErrInvalidMode = errors.New("invalid watermark mode")

	// ErrImageRead is returned when an image fails to decode at a boundary.
	ErrImageRead = errors.New("image read error")

	// ErrImageTooSmall is returned when the block grid over the LL subband is empty.
	ErrImageTooSmall = errors.New("image too small for block grid")

	// ErrWatermarkTooLarge is returned when the payload length is not strictly
	// less than the block count (L >= N).
	ErrWatermarkTooLarge = errors.New("watermark payload too large for cover image")

	// ErrInvalidShape is returned when a bitmap shape is missing or inconsistent
	// with the payload length on extract.
	ErrInvalidShape = errors.New("invalid watermark shape")

	// ErrInvalidParameter is returned for degenerate tuning: d1<=0, d2<0,
	// a zero or negative block dimension, or an empty payload.
	ErrInvalidParameter = errors.New("invalid parameter")
)
