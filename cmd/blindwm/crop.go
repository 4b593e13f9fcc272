package main

import (
	"fmt"

	"github.com/ashgrove/blindwm/internal/config"
	"github.com/ashgrove/blindwm/internal/recover"
)

func runEstimateCrop(cfg *config.Config, args []string) error {
	fs := newFlagSet("estimate-crop")
	originalPath := fs.String("original", "", "original (unattacked) image path")
	attackedPath := fs.String("attacked", "", "attacked (cropped/scaled) image path")
	scaleMin := fs.Float64("scale-min", cfg.ScaleMin, "minimum scale to search")
	scaleMax := fs.Float64("scale-max", cfg.ScaleMax, "maximum scale to search")
	searchSteps := fs.Int("search-steps", cfg.SearchSteps, "coarse-phase sample count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *originalPath == "" || *attackedPath == "" {
		return fmt.Errorf("estimate-crop: -original and -attacked are required")
	}

	original, err := loadGray(*originalPath)
	if err != nil {
		return err
	}
	attacked, err := loadGray(*attackedPath)
	if err != nil {
		return err
	}

	engine, err := recover.NewEngine(256)
	if err != nil {
		return fmt.Errorf("estimate-crop: %w", err)
	}

	result := engine.EstimateCrop(original, attacked, *scaleMin, *scaleMax, *searchSteps)
	fmt.Printf("box=(%d,%d,%d,%d) original_shape=(%d,%d) scale=%.4f score=%.4f\n",
		result.Box.X1, result.Box.Y1, result.Box.X2, result.Box.Y2,
		result.OriginalShape[0], result.OriginalShape[1], result.Scale, result.Score)
	return nil
}

func runRecoverCrop(cfg *config.Config, args []string) error {
	fs := newFlagSet("recover-crop")
	templatePath := fs.String("template", "", "cropped template image path")
	outPath := fs.String("out", "", "output image path")
	x1 := fs.Int("x1", 0, "crop box left")
	y1 := fs.Int("y1", 0, "crop box top")
	x2 := fs.Int("x2", 0, "crop box right")
	y2 := fs.Int("y2", 0, "crop box bottom")
	height := fs.Int("height", 0, "output canvas height")
	width := fs.Int("width", 0, "output canvas width")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" || *outPath == "" || *height <= 0 || *width <= 0 {
		return fmt.Errorf("recover-crop: -template, -out, -height, and -width are required")
	}

	template, err := loadNRGBA(*templatePath)
	if err != nil {
		return err
	}

	box := recover.Box{X1: *x1, Y1: *y1, X2: *x2, Y2: *y2}
	canvas := recover.RecoverCrop(template, box, [2]int{*height, *width})
	return saveImage(canvas, *outPath, 92)
}
