package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/audioconvert/internal/display"
	"github.com/backmassage/audioconvert/internal/ffmpeg"
	"github.com/backmassage/audioconvert/internal/logging"
	"github.com/backmassage/audioconvert/internal/naming"
)

// Dispatcher runs one ffmpeg conversion per file, sequentially.
type Dispatcher struct {
	FFmpegPath string
	Runner     ffmpeg.Runner // Defaults to ffmpeg.ExecRunner.
	DryRun     bool          // Log commands instead of running them.
	Log        *logging.Logger
}

// Run converts each file in files to codecName, writing
// outputDir/<stem>.<resolved ext>. Files are processed in order, one process
// at a time; a failed conversion is logged and the batch moves on.
func (d *Dispatcher) Run(ctx context.Context, codecName, outputDir string, files []string) RunStats {
	stats := RunStats{
		Total: len(files),
		Jobs:  make([]Job, 0, len(files)),
	}

	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	runner := d.Runner
	if runner == nil {
		runner = ffmpeg.ExecRunner{Tee: log.Verbose()}
	}
	bin := d.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}

	claimed := make(map[string]string) // output path -> input that wrote it

	for i, path := range files {
		stats.Current = i + 1

		outputPath := naming.OutputPath(outputDir, path, codecName)
		job := Job{
			InputPath:  path,
			OutputPath: outputPath,
			Args:       ffmpeg.Build(bin, path, codecName, outputPath),
			DryRun:     d.DryRun,
		}

		log.Info("[%d/%d] %s -> %s", stats.Current, stats.Total, filepath.Base(path), filepath.Base(outputPath))
		if prev, ok := claimed[outputPath]; ok {
			log.Warn("  Overwrites output of %s", filepath.Base(prev))
		}
		claimed[outputPath] = path

		if d.DryRun {
			log.Command("%s", quoteArgs(job.Args))
			stats.Jobs = append(stats.Jobs, job)
			continue
		}

		log.Debug("%s", quoteArgs(job.Args))
		job.Result = runner.Run(ctx, job.Args)
		stats.Dispatched++

		if !job.Result.OK() {
			stats.NonZeroExits++
			log.Warn("  ffmpeg exited with status %d: %s", job.Result.ExitCode, ffmpeg.Classify(job.Result))
			logStderr(log, job.Result.Stderr)
		} else if fi, err := os.Stat(outputPath); err == nil {
			stats.TotalOutputBytes += fi.Size()
		}
		stats.Jobs = append(stats.Jobs, job)
	}

	d.logSummary(log, &stats)
	return stats
}

func (d *Dispatcher) logSummary(log *logging.Logger, stats *RunStats) {
	if d.DryRun {
		log.Info("Dry run: %s printed", display.Count(len(stats.Jobs), "command"))
		return
	}
	log.Info("Done: %s processed, %s written", display.Count(stats.Dispatched, "file"), display.FormatBytes(stats.TotalOutputBytes))
}

// logStderr writes the last few stderr lines at DEBUG level.
func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 10 {
		start = len(lines) - 10
	}
	for _, l := range lines[start:] {
		log.Debug("  %s", l)
	}
}

// quoteArgs renders args as a copy-pasteable shell line.
func quoteArgs(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"()&;$") {
			out[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		} else {
			out[i] = a
		}
	}
	return strings.Join(out, " ")
}
