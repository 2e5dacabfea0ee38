// Package ffmpeg builds and runs the single ffmpeg invocation used to convert
// one audio file.
//
// The argument template is fixed: overwrite, one input, the requested audio
// codec, stream copy for any non-audio stream, quiet logging, one output.
// Exit status is reported back in [ExecResult] but callers in this module do
// not retry or abort on failure; [Classify] turns captured stderr into a short
// hint for the log.
package ffmpeg
