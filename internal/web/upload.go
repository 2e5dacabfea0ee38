package web

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/backmassage/audioconvert/internal/codec"
)

// checkUploads rejects files whose extension is not a recognized audio
// extension, one validation error per offending file.
func checkUploads(files []*multipart.FileHeader) []ValidationError {
	var errs []ValidationError
	for _, fh := range files {
		if !codec.IsAudioFile(fh.Filename) {
			errs = append(errs, ValidationError{
				Field:   "files",
				Message: fmt.Sprintf("%s: unsupported file type (allowed: %s)", filepath.Base(fh.Filename), strings.Join(codec.AllowedExtensions(), ", ")),
			})
		}
	}
	return errs
}

// saveUploads writes each upload to dir under a unique "<uuid><ext>" name
// and returns the paths in upload order. The original extension is kept so
// ffmpeg can pick the right demuxer.
func saveUploads(c *gin.Context, files []*multipart.FileHeader, dir string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		dst := filepath.Join(dir, uuid.NewString()+ext)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			return nil, fmt.Errorf("save %s: %w", filepath.Base(fh.Filename), err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}
