// Package archive writes converted files into a single zip for download.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"
)

// Entry maps a file on disk to its name inside the archive.
type Entry struct {
	Path string
	Name string
}

// Write deflates each entry into a zip stream on w. Entries whose file is
// missing (for example because ffmpeg produced nothing) are skipped and
// returned in skipped; any other error aborts the archive.
func Write(w io.Writer, entries []Entry) (skipped []Entry, err error) {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		ok, err := addFile(zw, e)
		if err != nil {
			_ = zw.Close()
			return skipped, err
		}
		if !ok {
			skipped = append(skipped, e)
		}
	}
	if err := zw.Close(); err != nil {
		return skipped, fmt.Errorf("finalize zip: %w", err)
	}
	return skipped, nil
}

// WriteFile is Write into a newly created file at path.
func WriteFile(path string, entries []Entry) (skipped []Entry, err error) {
	// #nosec G304 - path is a server-generated temp location
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	skipped, err = Write(f, entries)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close archive: %w", cerr)
	}
	return skipped, err
}

func addFile(zw *zip.Writer, e Entry) (bool, error) {
	// #nosec G304 - entry paths come from the conversion job list
	src, err := os.Open(e.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", e.Path, err)
	}
	defer func() {
		_ = src.Close()
	}()

	modified := time.Now()
	if fi, err := src.Stat(); err == nil {
		modified = fi.ModTime()
	}

	dst, err := zw.CreateHeader(&zip.FileHeader{
		Name:     e.Name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return false, fmt.Errorf("add %s: %w", e.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return false, fmt.Errorf("write %s: %w", e.Name, err)
	}
	return true, nil
}
