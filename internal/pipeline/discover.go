package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/audioconvert/internal/codec"
	"github.com/backmassage/audioconvert/internal/naming"
)

// ResolveDir lists the regular files directly inside inputDir whose extension
// is a recognized audio extension (case-insensitive), sorted
// lexicographically. Subdirectories are not descended into. outputDir is
// created if it does not exist yet; an existing directory is reused.
func ResolveDir(inputDir, outputDir string) ([]string, error) {
	fi, err := os.Stat(inputDir)
	if err != nil || !fi.IsDir() {
		return nil, &InputError{Path: inputDir, Reason: "not a directory"}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", inputDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !codec.IsAudioFile(e.Name()) {
			continue
		}
		path := filepath.Join(inputDir, e.Name())
		if !e.Type().IsRegular() {
			// Follow symlinks; skip sockets, devices and dangling links.
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// ResolveFiles checks that every path names an existing regular file and
// returns a copy of paths in the order supplied. A nil slice is rejected; an
// empty, non-nil slice yields no work.
func ResolveFiles(paths []string) ([]string, error) {
	if paths == nil {
		return nil, &InputError{Reason: "expected a list of files"}
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			return nil, &InputError{Path: p, Reason: "not an existing file"}
		}
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out, nil
}

// DefaultOutputDir returns the directory-mode output location:
// <inputDir>/<input dir name, spaces as underscores>_converted_<codec>.
// "." and other relative inputs are resolved so the name is never ".".
func DefaultOutputDir(inputDir, codecName string) (string, error) {
	abs, err := filepath.Abs(inputDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(inputDir, naming.OutputDirName(filepath.Base(abs), codecName)), nil
}
