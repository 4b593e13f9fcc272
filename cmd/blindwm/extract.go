package main

import (
	"fmt"

	"github.com/ashgrove/blindwm/internal/codec"
	"github.com/ashgrove/blindwm/internal/config"
	"github.com/ashgrove/blindwm/internal/convert"
	"github.com/ashgrove/blindwm/internal/wmerr"
)

func runExtract(cfg *config.Config, args []string) error {
	fs := newFlagSet("extract")
	embeddedPath := fs.String("in", "", "watermarked image path")
	length := fs.Int("length", 0, "payload bit length L")
	mode := fs.String("mode", "text", "payload mode: text, bitmap, or bits")
	bitmapHeight := fs.Int("bitmap-height", 0, "bitmap payload height (bitmap mode only)")
	bitmapWidth := fs.Int("bitmap-width", 0, "bitmap payload width (bitmap mode only)")
	bitmapOut := fs.String("bitmap-out", "", "output path for reconstructed bitmap (bitmap mode only)")
	imgKey := fs.Int("img-key", 0, "intra-block shuffle key (0 = config default)")
	wmKey := fs.Int("wm-key", 0, "payload permutation key (0 = config default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *embeddedPath == "" || *length <= 0 {
		return fmt.Errorf("extract: -in and -length are required")
	}

	embedded, err := loadNRGBA(*embeddedPath)
	if err != nil {
		return err
	}

	keys := codec.Keys{ImgKey: cfg.ImgKey, WmKey: cfg.WmKey}
	if *imgKey != 0 {
		keys.ImgKey = *imgKey
	}
	if *wmKey != 0 {
		keys.WmKey = *wmKey
	}

	avg, err := codec.Extract(embedded, *length, keys, tuningFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	switch *mode {
	case "bitmap":
		if *bitmapHeight <= 0 || *bitmapWidth <= 0 || *bitmapHeight**bitmapWidth != *length {
			return fmt.Errorf("extract: %w: -bitmap-height x -bitmap-width must be positive and equal -length", wmerr.ErrInvalidShape)
		}
		if *bitmapOut == "" {
			return fmt.Errorf("extract: -bitmap-out is required for bitmap mode")
		}
		bits := convert.BinarizeBitmap(avg)
		bmp := convert.BitsToBitmap(bits, [2]int{*bitmapHeight, *bitmapWidth})
		return saveImage(bmp, *bitmapOut, 0)
	case "bits":
		bits := convert.BinarizeText(avg)
		for _, b := range bits {
			if b {
				fmt.Print("1")
			} else {
				fmt.Print("0")
			}
		}
		fmt.Println()
		return nil
	case "text":
		bits := convert.BinarizeText(avg)
		fmt.Println(convert.BitsToText(bits))
		return nil
	default:
		return fmt.Errorf("extract: %w: %q (want text, bitmap, or bits)", wmerr.ErrInvalidMode, *mode)
	}
}
