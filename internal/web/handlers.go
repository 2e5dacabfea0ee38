package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/backmassage/audioconvert/internal/archive"
	"github.com/backmassage/audioconvert/internal/codec"
	"github.com/backmassage/audioconvert/internal/naming"
	"github.com/backmassage/audioconvert/internal/pipeline"
)

// ArchiveName is the download file name of every conversion.
const ArchiveName = "converted.zip"

// CodecInfo describes one selectable output codec.
type CodecInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// convertForm is the non-file part of the upload form.
type convertForm struct {
	Codec string `form:"codec" binding:"required,audiocodec"`
}

func codecInfos() []CodecInfo {
	opts := codec.Options()
	out := make([]CodecInfo, len(opts))
	for i, c := range opts {
		out[i] = CodecInfo{Name: c, Extension: codec.Extension(c)}
	}
	return out
}

// Index renders the upload form.
func (s *Server) Index(c *gin.Context) {
	exts := codec.AllowedExtensions()
	accept := make([]string, len(exts))
	for i, e := range exts {
		accept[i] = "." + e
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Codecs":      codecInfos(),
		"Accept":      strings.Join(accept, ","),
		"MaxUploadMB": s.cfg.MaxUploadMB,
	})
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCodecs handles GET /api/v1/codecs.
func (s *Server) ListCodecs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"codecs":             codecInfos(),
		"allowed_extensions": codec.AllowedExtensions(),
	})
}

// Convert handles POST /convert: it stores the uploads, converts them one by
// one and answers with a zip of the results named after the original uploads.
func (s *Server) Convert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes())

	var form convertForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendProblem(c, NewPayloadTooLargeProblem(
				"upload exceeds "+strconv.FormatInt(s.cfg.MaxUploadMB, 10)+" MB"))
			return
		}
		SendProblem(c, NewValidationProblem("The conversion request is invalid", formatValidationErrors(err)))
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		SendProblem(c, NewBadRequestProblem("expected a multipart/form-data upload"))
		return
	}
	uploads := mf.File["files"]
	if len(uploads) == 0 {
		SendProblem(c, NewBadRequestProblem("select at least one file to convert"))
		return
	}
	if errs := checkUploads(uploads); len(errs) > 0 {
		SendProblem(c, NewValidationProblem("Some uploads are not audio files", errs))
		return
	}

	workDir, err := os.MkdirTemp(s.tempDir(), "audioconvert-*")
	if err != nil {
		s.log.Error("Cannot create work directory: %v", err)
		SendProblem(c, NewInternalServerProblem("cannot create work directory"))
		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.log.Warn("Failed to clean up %s: %v", workDir, err)
		}
	}()

	inDir := filepath.Join(workDir, "in")
	outDir := filepath.Join(workDir, "out")
	for _, d := range []string{inDir, outDir} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			s.log.Error("Cannot create %s: %v", d, err)
			SendProblem(c, NewInternalServerProblem("cannot create work directory"))
			return
		}
	}

	saved, err := saveUploads(c, uploads, inDir)
	if err != nil {
		s.log.Error("Upload failed: %v", err)
		SendProblem(c, NewInternalServerProblem("failed to store uploads"))
		return
	}
	files, err := pipeline.ResolveFiles(saved)
	if err != nil {
		SendProblem(c, NewBadRequestProblem(err.Error()))
		return
	}

	s.log.Info("Converting %d uploads to %s", len(files), form.Codec)
	d := &pipeline.Dispatcher{
		FFmpegPath: s.cfg.FFmpegPath,
		Runner:     s.runner,
		Log:        s.log,
	}
	// A started batch runs to completion even if the client goes away.
	stats := d.Run(context.WithoutCancel(c.Request.Context()), form.Codec, outDir, files)

	// Names are claimed only for converted files so a failed upload never
	// pushes a sibling with the same stem onto a " - dupN" name.
	namer := naming.NewEntryNamer()
	entries := make([]archive.Entry, 0, len(stats.Jobs))
	for i, job := range stats.Jobs {
		if !hasOutput(job) {
			s.log.Warn("No output for %s, left out of archive", filepath.Base(uploads[i].Filename))
			continue
		}
		entries = append(entries, archive.Entry{
			Path: job.OutputPath,
			Name: namer.Claim(naming.ArchiveEntryName(uploads[i].Filename, form.Codec)),
		})
	}

	zipPath := filepath.Join(workDir, ArchiveName)
	skipped, err := archive.WriteFile(zipPath, entries)
	if err != nil {
		s.log.Error("Archive failed: %v", err)
		SendProblem(c, NewInternalServerProblem("failed to build archive"))
		return
	}
	for _, e := range skipped {
		s.log.Warn("No output for %s, left out of archive", e.Name)
	}

	c.Header("X-Converted-Count", strconv.Itoa(len(entries)-len(skipped)))
	c.FileAttachment(zipPath, ArchiveName)
}

// hasOutput reports whether job ran successfully and left a regular file
// at its output path.
func hasOutput(job pipeline.Job) bool {
	if !job.Result.OK() {
		return false
	}
	fi, err := os.Stat(job.OutputPath)
	return err == nil && fi.Mode().IsRegular()
}
