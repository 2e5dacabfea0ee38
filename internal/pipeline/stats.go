package pipeline

import "github.com/backmassage/audioconvert/internal/ffmpeg"

// Job is one file's conversion: where it came from, where it went, and what
// ffmpeg reported.
type Job struct {
	InputPath  string
	OutputPath string
	Args       []string
	Result     ffmpeg.ExecResult
	DryRun     bool
}

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Dispatched       int
	NonZeroExits     int
	TotalOutputBytes int64
	Jobs             []Job
}
