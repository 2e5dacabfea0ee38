// Package pipeline resolves the set of files to convert and dispatches one
// ffmpeg process per file, strictly in order.
//
// Resolution fails fast with an [InputError] (matching [ErrInvalidInput])
// before any conversion starts. Once dispatching begins, ffmpeg failures are
// logged and counted but never abort the batch.
package pipeline
