// Command audioconvert-web serves the upload form and converts uploaded
// files into a downloadable zip.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backmassage/audioconvert/internal/check"
	"github.com/backmassage/audioconvert/internal/config"
	"github.com/backmassage/audioconvert/internal/display"
	"github.com/backmassage/audioconvert/internal/logging"
	"github.com/backmassage/audioconvert/internal/web"
)

var version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("audioconvert-web v" + version)
		return 0
	}

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audioconvert-web: %v\n", err)
		return 1
	}

	log, err := logging.New(logging.Options{
		Color:   cfg.ColorMode,
		File:    cfg.LogFile,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "audioconvert-web: %v\n", err)
		return 1
	}
	defer log.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	display.PrintBanner(os.Stdout)

	// A missing ffmpeg is not fatal: the form still renders and each
	// conversion logs its own failure.
	if err := check.CheckDeps(cfg.FFmpegPath); err != nil {
		log.Warn("%v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           web.NewServer(cfg, log, nil).Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s (%s)", cfg.Address, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("Server failed: %v", err)
		return 1
	case <-quit:
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown: %v", err)
		return 1
	}
	log.Info("Server exited")
	return 0
}
