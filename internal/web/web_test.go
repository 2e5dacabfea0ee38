package web

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/audioconvert/internal/config"
	"github.com/backmassage/audioconvert/internal/ffmpeg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeRunner writes "converted" to the output path (last argument) unless
// the call index is listed in fail.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  map[int]bool
}

func (f *fakeRunner) Run(_ context.Context, args []string) ffmpeg.ExecResult {
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, args)
	f.mu.Unlock()

	if f.fail[idx] {
		return ffmpeg.ExecResult{Stderr: "Invalid data found when processing input", ExitCode: 1, Err: errors.New("exit status 1")}
	}
	if err := os.WriteFile(args[len(args)-1], []byte("converted"), 0o644); err != nil {
		return ffmpeg.ExecResult{ExitCode: 1, Err: err}
	}
	return ffmpeg.ExecResult{}
}

func newTestServer(t *testing.T, runner ffmpeg.Runner) (*Server, string) {
	t.Helper()
	tmp := t.TempDir()
	cfg := config.DefaultServerConfig()
	cfg.TempDir = tmp
	cfg.MaxUploadMB = 1
	return NewServer(cfg, nil, runner), tmp
}

type upload struct {
	name string
	data string
}

func multipartBody(t *testing.T, codecName string, files []upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if codecName != "" {
		require.NoError(t, w.WriteField("codec", codecName))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postConvert(t *testing.T, s *Server, codecName string, files []upload) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, codecName, files)
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestIndex_RendersCodecOptions(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, c := range []string{"mp3", "wave", "aac", "opus", "wma", "flac", "ogg", "aiff", "ape", "alac"} {
		assert.Contains(t, body, `<option value="`+c+`">`)
	}
	assert.Contains(t, body, `name="files"`)
	assert.Contains(t, body, `multiple`)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListCodecs(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/codecs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Codecs            []CodecInfo `json:"codecs"`
		AllowedExtensions []string    `json:"allowed_extensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Codecs, 10)
	assert.Equal(t, CodecInfo{Name: "mp3", Extension: "mp3"}, resp.Codecs[0])
	assert.Contains(t, resp.Codecs, CodecInfo{Name: "wave", Extension: "wav"})
	assert.Contains(t, resp.Codecs, CodecInfo{Name: "alac", Extension: "m4a"})
	assert.Len(t, resp.AllowedExtensions, 11)
}

func TestConvert_ZipsOutputsUnderOriginalNames(t *testing.T) {
	runner := &fakeRunner{}
	s, tmp := newTestServer(t, runner)

	rec := postConvert(t, s, "flac", []upload{
		{name: "Song One.mp3", data: "x"},
		{name: "two.WAV", data: "y"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="converted.zip"`)
	assert.Equal(t, "2", rec.Header().Get("X-Converted-Count"))
	assert.Equal(t, []string{"Song One.flac", "two.flac"}, zipNames(t, rec.Body.Bytes()))

	require.Len(t, runner.calls, 2)
	for _, args := range runner.calls {
		assert.Equal(t, "-acodec", args[4])
		assert.Equal(t, "flac", args[5])
	}

	// Per-request work directory is removed once the response is written.
	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestConvert_ExceptionCodecExtension(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	rec := postConvert(t, s, "wave", []upload{{name: "track.mp3", data: "x"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"track.wav"}, zipNames(t, rec.Body.Bytes()))
}

func TestConvert_DuplicateStemsAreDisambiguated(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	rec := postConvert(t, s, "aac", []upload{
		{name: "song.mp3", data: "x"},
		{name: "song.flac", data: "y"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"song - dup1.m4a", "song.m4a"}, zipNames(t, rec.Body.Bytes()))
}

func TestConvert_FailedFileIsLeftOut(t *testing.T) {
	runner := &fakeRunner{fail: map[int]bool{0: true}}
	s, _ := newTestServer(t, runner)

	rec := postConvert(t, s, "mp3", []upload{
		{name: "broken.wav", data: "x"},
		{name: "good.wav", data: "y"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Converted-Count"))
	assert.Equal(t, []string{"good.mp3"}, zipNames(t, rec.Body.Bytes()))
	assert.Len(t, runner.calls, 2)
}

func TestConvert_FailedUploadDoesNotClaimName(t *testing.T) {
	runner := &fakeRunner{fail: map[int]bool{0: true}}
	s, _ := newTestServer(t, runner)

	rec := postConvert(t, s, "aac", []upload{
		{name: "song.mp3", data: "x"},
		{name: "song.flac", data: "y"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Converted-Count"))
	assert.Equal(t, []string{"song.m4a"}, zipNames(t, rec.Body.Bytes()))
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name       string
		codec      string
		files      []upload
		wantStatus int
		wantType   string
	}{
		{"missing codec", "", []upload{{name: "a.mp3", data: "x"}}, http.StatusUnprocessableEntity, ProblemTypeValidationError},
		{"unknown codec", "vorbis", []upload{{name: "a.mp3", data: "x"}}, http.StatusUnprocessableEntity, ProblemTypeValidationError},
		{"no files", "mp3", nil, http.StatusBadRequest, ProblemTypeBadRequest},
		{"non-audio upload", "mp3", []upload{{name: "notes.txt", data: "x"}}, http.StatusUnprocessableEntity, ProblemTypeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			s, _ := newTestServer(t, runner)

			rec := postConvert(t, s, tt.codec, tt.files)

			require.Equal(t, tt.wantStatus, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, "/convert", p.Instance)
			assert.NotEmpty(t, p.TraceID)
			assert.Empty(t, runner.calls)
		})
	}
}

func TestConvert_UnknownCodecListsOptions(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	rec := postConvert(t, s, "vorbis", []upload{{name: "a.mp3", data: "x"}})

	p := decodeProblem(t, rec)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "codec", p.Errors[0].Field)
	assert.Contains(t, p.Errors[0].Message, "mp3, wave, aac")
}

func TestConvert_PayloadTooLarge(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})

	big := make([]byte, 2<<20)
	rec := postConvert(t, s, "mp3", []upload{{name: "big.wav", data: string(big)}})

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, ProblemTypePayloadTooLarge, decodeProblem(t, rec).Type)
}

func TestTraceID_ReusesValidHeader(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	const id = "6f1c3b7e-2d4a-4b8e-9c1f-0a2b3c4d5e6f"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestHandler_CORS(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.AllowedOrigins = []string{"https://example.com"}
	s := NewServer(cfg, nil, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSaveUploads_KeepsExtension(t *testing.T) {
	body, ct := multipartBody(t, "mp3", []upload{{name: "dir/Track.FLAC", data: "abc"}})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	dir := t.TempDir()

	paths, err := saveUploads(c, req.MultipartForm.File["files"], dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, dir, filepath.Dir(paths[0]))
	assert.Equal(t, ".flac", filepath.Ext(paths[0]))

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
