package main

import (
	"fmt"

	"github.com/ashgrove/blindwm/internal/codec"
	"github.com/ashgrove/blindwm/internal/config"
	"github.com/ashgrove/blindwm/internal/convert"
	"github.com/ashgrove/blindwm/internal/pool"
)

func tuningFromConfig(cfg *config.Config) codec.Tuning {
	return codec.Tuning{
		D1:          cfg.D1,
		D2:          cfg.D2,
		BlockH:      cfg.BlockHeight,
		BlockW:      cfg.BlockWidth,
		PoolMode:    pool.ParseMode(cfg.PoolMode),
		PoolWorkers: cfg.WorkerCount,
	}
}

func runEmbed(cfg *config.Config, args []string) error {
	fs := newFlagSet("embed")
	coverPath := fs.String("cover", "", "cover image path")
	outPath := fs.String("out", "", "output image path")
	text := fs.String("text", "", "UTF-8 text payload")
	bitmapPath := fs.String("bitmap", "", "grayscale bitmap payload image path")
	imgKey := fs.Int("img-key", 0, "intra-block shuffle key (0 = config default)")
	wmKey := fs.Int("wm-key", 0, "payload permutation key (0 = config default)")
	jpegQuality := fs.Int("jpeg-quality", 92, "JPEG quality for .jpg/.jpeg output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *coverPath == "" || *outPath == "" {
		return fmt.Errorf("embed: -cover and -out are required")
	}
	if *text == "" && *bitmapPath == "" {
		return fmt.Errorf("embed: one of -text or -bitmap is required")
	}

	cover, err := loadNRGBA(*coverPath)
	if err != nil {
		return err
	}

	var bits []bool
	if *text != "" {
		bits = convert.TextToBits(*text)
	} else {
		bmp, err := loadGray(*bitmapPath)
		if err != nil {
			return err
		}
		bits = convert.BitmapToBits(bmp)
	}

	keys := codec.Keys{ImgKey: cfg.ImgKey, WmKey: cfg.WmKey}
	if *imgKey != 0 {
		keys.ImgKey = *imgKey
	}
	if *wmKey != 0 {
		keys.WmKey = *wmKey
	}

	embedded, err := codec.Embed(cover, bits, keys, tuningFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	if err := saveImage(embedded, *outPath, *jpegQuality); err != nil {
		return fmt.Errorf("embed: write output: %w", err)
	}
	return nil
}
