package naming

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/audioconvert/internal/codec"
)

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputFileName returns "<stem>.<ext>" for input converted to codec.
func OutputFileName(inputPath, codecName string) string {
	return Stem(inputPath) + "." + codec.Extension(codecName)
}

// OutputPath joins outputDir with [OutputFileName].
func OutputPath(outputDir, inputPath, codecName string) string {
	return filepath.Join(outputDir, OutputFileName(inputPath, codecName))
}

// OutputDirName returns "<dir name with spaces as underscores>_converted_<codec>".
// dirName is the input directory's base name (already resolved when the
// input was ".").
func OutputDirName(dirName, codecName string) string {
	return strings.ReplaceAll(dirName, " ", "_") + "_converted_" + codecName
}

// ArchiveEntryName returns the name a converted upload gets inside the
// download archive: the original upload's stem plus the resolved extension.
// Client-supplied directories are dropped.
func ArchiveEntryName(uploadName, codecName string) string {
	name := filepath.Base(strings.ReplaceAll(uploadName, `\`, "/"))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" || stem == "." || stem == "/" {
		stem = "audio"
	}
	return stem + "." + codec.Extension(codecName)
}
