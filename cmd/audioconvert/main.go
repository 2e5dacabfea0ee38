// Command audioconvert converts every audio file in a directory to one codec
// by running ffmpeg once per file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/audioconvert/internal/check"
	"github.com/backmassage/audioconvert/internal/config"
	"github.com/backmassage/audioconvert/internal/display"
	"github.com/backmassage/audioconvert/internal/logging"
	"github.com/backmassage/audioconvert/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: no logger yet, errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		if !errors.Is(err, config.ErrUsage) {
			fmt.Fprintf(os.Stderr, "audioconvert: %v\n", err)
		}
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "audioconvert: %v\n", err)
		return 1
	}

	log, err := logging.New(logging.Options{
		Color:   cfg.ColorMode,
		File:    cfg.LogFile,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "audioconvert: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(cfg.FFmpegPath, log) {
			return 1
		}
		return 0
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir, err = pipeline.DefaultOutputDir(cfg.InputDir, cfg.Codec)
		if err != nil {
			log.Error("Cannot resolve output path for %s: %v", cfg.InputDir, err)
			return 1
		}
	}

	files, err := pipeline.ResolveDir(cfg.InputDir, outputDir)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== AudioConvert v%s (%s) ===", version, commit)
	log.Info("In:    %s", cfg.InputDir)
	log.Info("Out:   %s", outputDir)
	log.Info("Codec: %s", cfg.Codec)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	} else if err := check.CheckDeps(cfg.FFmpegPath); err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("")

	if len(files) == 0 {
		log.Warn("No audio files found in %s", cfg.InputDir)
		return 0
	}

	d := &pipeline.Dispatcher{
		FFmpegPath: cfg.FFmpegPath,
		DryRun:     cfg.DryRun,
		Log:        log,
	}
	// Per-file failures are logged by the dispatcher and do not change the
	// exit status.
	d.Run(context.Background(), cfg.Codec, outputDir, files)
	return 0
}
