package ffmpeg

import "regexp"

// Failure classifies why an ffmpeg run failed, for log hints only.
type Failure int

const (
	FailureUnknown       Failure = iota
	FailureUnknownCodec          // Codec name not recognized by this ffmpeg build.
	FailureInvalidInput          // Input is not decodable audio.
	FailureMissingInput          // Input path vanished.
	FailureNoAudio               // Input has no audio stream.
	FailureContainer             // Codec is not allowed in the output container.
	FailureBinaryMissing         // The ffmpeg binary could not be started.
)

// Pre-compiled regexes for classifying ffmpeg stderr. Checked in order by
// [Classify]; the first match wins.
var (
	reUnknownCodec = regexp.MustCompile(
		`(?i)Unknown encoder|Encoder not found|Unrecognized option 'acodec'`)

	reMissingInput = regexp.MustCompile(
		`(?i)No such file or directory`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`could not find codec parameters|` +
			`moov atom not found|` +
			`Error while decoding stream`)

	reNoAudio = regexp.MustCompile(
		`(?i)Output file #0 does not contain any stream|` +
			`Stream map .* matches no streams`)

	reContainer = regexp.MustCompile(
		`(?i)Could not find tag for codec|` +
			`codec not currently supported in container|` +
			`Could not write header for output file`)
)

// Classify inspects the result of a failed run and returns the most likely
// failure category.
func Classify(r ExecResult) Failure {
	if r.Err != nil && r.ExitCode == -1 && r.Stderr == "" {
		return FailureBinaryMissing
	}
	switch s := r.Stderr; {
	case reUnknownCodec.MatchString(s):
		return FailureUnknownCodec
	case reMissingInput.MatchString(s):
		return FailureMissingInput
	case reInvalidInput.MatchString(s):
		return FailureInvalidInput
	case reNoAudio.MatchString(s):
		return FailureNoAudio
	case reContainer.MatchString(s):
		return FailureContainer
	}
	return FailureUnknown
}

// String returns a short human-readable hint.
func (f Failure) String() string {
	switch f {
	case FailureUnknownCodec:
		return "codec not supported by this ffmpeg build"
	case FailureInvalidInput:
		return "input is not decodable audio"
	case FailureMissingInput:
		return "input file not found"
	case FailureNoAudio:
		return "input has no audio stream"
	case FailureContainer:
		return "codec not allowed in output container"
	case FailureBinaryMissing:
		return "ffmpeg could not be started"
	default:
		return "unknown ffmpeg error"
	}
}
