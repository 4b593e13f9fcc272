// Command blindwm is a CLI front end over the DWT-DCT-SVD watermark
// codec: embed, extract, and the template-matching crop/scale recovery
// pair, following the same log/slog + config.Load() bootstrap as the
// original server entry point.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ashgrove/blindwm/internal/config"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.Load()

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "embed":
		err = runEmbed(cfg, os.Args[2:])
	case "extract":
		err = runExtract(cfg, os.Args[2:])
	case "estimate-crop":
		err = runEstimateCrop(cfg, os.Args[2:])
	case "recover-crop":
		err = runRecoverCrop(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("blindwm", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: blindwm <command> [flags]

commands:
  embed          embed a payload into a cover image
  extract        extract a payload from a watermarked image
  estimate-crop  estimate the crop box and scale of a geometric attack
  recover-crop   repaint a cropped template back onto its original canvas`)
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}
