package main

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashgrove/blindwm/internal/wmerr"
)

func loadNRGBA(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wmerr.ErrImageRead, err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", wmerr.ErrImageRead, path, err)
	}

	b := decoded.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, decoded, b.Min, draw.Src)
	return out, nil
}

func loadGray(path string) (*image.Gray, error) {
	nrgba, err := loadNRGBA(path)
	if err != nil {
		return nil, err
	}
	b := nrgba.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, nrgba, b.Min, draw.Src)
	return gray, nil
}

func saveImage(img image.Image, path string, jpegQuality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		return png.Encode(f, img)
	default:
		return png.Encode(f, img)
	}
}
