package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/audioconvert/internal/config"
	"github.com/backmassage/audioconvert/internal/term"
)

func TestNew_NoFile(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Options{Color: config.ColorNever, Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
	if !strings.Contains(out.String(), "[INFO] test message") {
		t.Errorf("stdout content: %q", out.String())
	}
}

func TestNew_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "audioconvert.log")
	var out bytes.Buffer
	l, err := New(Options{Color: config.ColorNever, File: path, Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestLogger_ErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	l, err := New(Options{Color: config.ColorNever, Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatal(err)
	}
	l.Error("boom")
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] boom") {
		t.Errorf("stderr content: %q", errOut.String())
	}
}

func TestLogger_DebugGatedOnVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer
	lq, _ := New(Options{Color: config.ColorNever, Stdout: &quiet})
	lq.Debug("hidden")
	ll, _ := New(Options{Color: config.ColorNever, Stdout: &loud, Verbose: true})
	ll.Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger wrote debug: %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "[DEBUG] shown") {
		t.Errorf("verbose logger output: %q", loud.String())
	}
}

func TestLogger_ColorOnlyOnConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color.log")
	var out bytes.Buffer
	l, err := New(Options{Color: config.ColorAlways, File: path, Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { term.Configure(config.ColorNever, nil) })

	l.Warn("careful")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "\033[1;93m[WARN]\033[0m careful") {
		t.Errorf("console line not colored: %q", out.String())
	}
	b, _ := os.ReadFile(path)
	if bytes.Contains(b, []byte("\033[")) {
		t.Errorf("log file contains ANSI codes: %q", string(b))
	}
}
