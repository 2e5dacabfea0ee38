// Package web serves the upload form and the convert-and-download endpoint
// on top of the same resolver and dispatcher the CLI uses.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/backmassage/audioconvert/internal/config"
	"github.com/backmassage/audioconvert/internal/ffmpeg"
	"github.com/backmassage/audioconvert/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg    config.ServerConfig
	log    *logging.Logger
	runner ffmpeg.Runner
	engine *gin.Engine
}

// NewServer builds the gin engine and registers all routes. runner may be
// nil, in which case ffmpeg is executed for real.
func NewServer(cfg config.ServerConfig, log *logging.Logger, runner ffmpeg.Runner) *Server {
	if runner == nil {
		runner = ffmpeg.ExecRunner{Tee: cfg.Verbose}
	}
	if log == nil {
		log = logging.Discard()
	}
	registerValidators()

	s := &Server{cfg: cfg, log: log, runner: runner}

	r := gin.New()
	r.Use(gin.Recovery(), traceID(), requestLogger(log))
	r.MaxMultipartMemory = 32 << 20
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.Index)
	r.GET("/healthz", s.Health)
	r.POST("/convert", s.Convert)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/codecs", s.ListCodecs)
		v1.POST("/convert", s.Convert)
	}

	s.engine = r
	return s
}

// Handler returns the root http.Handler, wrapped in CORS handling when
// allowed origins are configured. With no origins configured, cross-origin
// requests get no CORS headers.
func (s *Server) Handler() http.Handler {
	if len(s.cfg.AllowedOrigins) == 0 {
		return s.engine
	}
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID", "X-Converted-Count"},
	})
	return c.Handler(s.engine)
}

// tempDir returns the parent for per-request work directories.
func (s *Server) tempDir() string {
	if s.cfg.TempDir != "" {
		return s.cfg.TempDir
	}
	return os.TempDir()
}
