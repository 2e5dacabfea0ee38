package codec

import (
	"path/filepath"
	"sort"
	"strings"
)

// extensionExceptions maps codec names to the file extension ffmpeg produces
// for them when the two differ. Codecs not listed here use their own name.
var extensionExceptions = map[string]string{
	"wave": "wav",
	"alac": "m4a",
	"aac":  "m4a",
}

// allowedExtensions is the set of recognized input extensions (lowercase,
// without the leading dot).
var allowedExtensions = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"m4a":  true,
	"opus": true,
	"wma":  true,
	"flac": true,
	"mp4":  true,
	"ogg":  true,
	"aiff": true,
	"webm": true,
	"ape":  true,
}

// options lists the codecs offered by the web form, in display order.
var options = []string{"mp3", "wave", "aac", "opus", "wma", "flac", "ogg", "aiff", "ape", "alac"}

// Extension returns the output file extension (without dot) for codec:
// the exception-table value when one exists, otherwise codec itself.
func Extension(codec string) string {
	if ext, ok := extensionExceptions[codec]; ok {
		return ext
	}
	return codec
}

// HasException reports whether codec's output extension differs from its name.
func HasException(codec string) bool {
	_, ok := extensionExceptions[codec]
	return ok
}

// IsAudioFile reports whether path has a recognized audio extension.
// Matching is case-insensitive.
func IsAudioFile(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	return allowedExtensions[strings.ToLower(ext)]
}

// AllowedExtensions returns the recognized input extensions, sorted.
func AllowedExtensions() []string {
	out := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Options returns a copy of the codecs offered by the web form.
func Options() []string {
	out := make([]string, len(options))
	copy(out, options)
	return out
}

// IsOption reports whether codec is one of the web form choices.
func IsOption(codec string) bool {
	for _, o := range options {
		if o == codec {
			return true
		}
	}
	return false
}
