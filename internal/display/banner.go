package display

import (
	"fmt"
	"io"

	"github.com/backmassage/audioconvert/internal/term"
)

// PrintBanner writes the ASCII art banner and tagline to w; in the accent color
// when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Active.Accent)
	fmt.Fprint(w, `    _             _ _       ___                     _
   /_\ _  _ __| (_)___  / __|___ _ ___ _____ _ _| |_
  / _ \ || / _`+"`"+` | / _ \| (__/ _ \ ' \ V / -_) '_|  _|
 /_/ \_\_,_\__,_|_\___/ \___\___/_||_\_/\___|_|  \__|
`)
	fmt.Fprint(w, term.Active.Reset)
	fmt.Fprintln(w, "Batch audio conversion powered by FFmpeg")
}
