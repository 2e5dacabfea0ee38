// Package term decides whether output gets ANSI colors and holds the
// palette logging and display draw from.
package term

import (
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/backmassage/audioconvert/internal/config"
)

// Palette maps each kind of output to an ANSI sequence. The zero Palette
// prints plain text.
type Palette struct {
	Info    string
	Success string
	Warn    string
	Error   string
	Command string
	Debug   string
	Accent  string // Banner.
	Reset   string
}

var ansi = Palette{
	Info:    "\033[1;94m",
	Success: "\033[1;92m",
	Warn:    "\033[1;93m",
	Error:   "\033[1;91m",
	Command: "\033[1;95m",
	Debug:   "\033[1;96m",
	Accent:  "\033[1;95m",
	Reset:   "\033[0m",
}

// Active is the palette in effect. It is set by Configure during startup
// and only read afterwards.
var Active Palette

// Configure sets Active for output going to out.
func Configure(mode config.ColorMode, out *os.File) {
	if ShouldColor(mode, out) {
		Active = ansi
	} else {
		Active = Palette{}
	}
}

// Enabled reports whether Active carries color sequences.
func Enabled() bool { return Active.Reset != "" }

// Wrap surrounds s with color and the reset sequence. With colors off, or an
// empty color, s is returned as is.
func Wrap(color, s string) string {
	if color == "" || Active.Reset == "" {
		return s
	}
	return color + s + Active.Reset
}

// ShouldColor resolves mode for out. In auto mode, NO_COLOR
// (https://no-color.org) and TERM=dumb turn colors off, FORCE_COLOR turns
// them on for non-terminals, and otherwise out must be a TTY.
func ShouldColor(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
