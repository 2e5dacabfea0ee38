// Package config holds runtime configuration: CLI defaults, flag parsing and
// validation for the batch converter, plus the YAML/env settings of the web
// server.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds the CLI settings. It is populated by [DefaultConfig] and then
// mutated by [ParseFlags] before being passed (by pointer) to packages that
// need it.
type Config struct {
	// Positional args.
	InputDir string
	Codec    string

	// OutputDir overrides the derived "<dir>_converted_<codec>" directory.
	OutputDir string

	// FFmpegPath is the transcoder binary. Default: "ffmpeg" (looked up on PATH).
	FFmpegPath string

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		FFmpegPath: "ffmpeg",
		ColorMode:  ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and, outside CheckOnly mode, that the input
// directory and codec are present and usable.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.Codec == "" {
		return errors.New("need exactly input_dir and codec")
	}
	return ValidateCodecName(c.Codec)
}

// ValidateCodecName rejects codec names that cannot double as a file
// extension: empty, containing whitespace, dots or path separators.
func ValidateCodecName(codec string) error {
	if codec == "" {
		return errors.New("codec must not be empty")
	}
	if strings.ContainsAny(codec, " \t\n./\\") {
		return fmt.Errorf("invalid codec %q (no spaces, dots or slashes)", codec)
	}
	return nil
}
