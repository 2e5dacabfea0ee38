// Package naming derives every name the converter writes: the per-run output
// directory, each converted file's path, and the entry names inside the
// download archive.
//
// All output names follow one rule: original stem + "." + the codec's
// resolved extension (see [codec.Extension]).
package naming
