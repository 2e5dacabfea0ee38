// Package check provides system diagnostics (--check mode) and the pre-run
// dependency validation (CheckDeps) for the ffmpeg binary.
package check

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/audioconvert/internal/codec"
)

// ErrFfmpegNotFound is returned by CheckDeps when the transcoder cannot be found.
var ErrFfmpegNotFound = errors.New("ffmpeg not found")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck prints the ffmpeg version and, for every codec offered by the web
// form, whether this ffmpeg build has an encoder by that name. It returns
// false only when ffmpeg itself is unusable.
func RunCheck(bin string, log Logger) bool {
	log.Info("=== System Check ===")

	if err := CheckDeps(bin); err != nil {
		log.Error("%v", err)
		return false
	}

	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return false
	}
	log.Success("ffmpeg: %s", firstLine(string(out)))

	out, err = exec.Command(bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return true
	}
	encoders := ParseEncoders(string(out))

	log.Info("Audio encoders for supported codecs:")
	for _, c := range codec.Options() {
		if encoders[c] {
			log.Success("  %-6s -> .%s", c, codec.Extension(c))
		} else {
			log.Warn("  %-6s not available in this ffmpeg build", c)
		}
	}
	return true
}

// CheckDeps verifies that bin resolves to an executable (PATH lookup for bare
// names).
func CheckDeps(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, bin)
	}
	return nil
}

// ParseEncoders extracts audio encoder names from `ffmpeg -encoders` output.
// Lines look like " A....D aac                  AAC (Advanced Audio Coding)";
// the flags column starts with 'A' for audio encoders.
func ParseEncoders(out string) map[string]bool {
	encoders := make(map[string]bool)
	inList := false
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "------") {
			inList = true
			continue
		}
		if !inList {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "A") {
			continue
		}
		encoders[fields[1]] = true
		// "-acodec mp3" resolves to libmp3lame via its "(codec mp3)" alias.
		if i := strings.LastIndex(line, "(codec "); i >= 0 {
			alias := strings.TrimSuffix(line[i+len("(codec "):], ")")
			encoders[alias] = true
		}
	}
	return encoders
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}
