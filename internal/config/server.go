package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the web front settings. Values come from defaults, then
// an optional YAML file, then AUDIOCONVERT_* environment variables.
type ServerConfig struct {
	Address        string    `yaml:"address"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	FFmpegPath     string    `yaml:"ffmpeg_path"`
	TempDir        string    `yaml:"temp_dir"` // Empty means os.TempDir().
	MaxUploadMB    int64     `yaml:"max_upload_mb"`
	Environment    string    `yaml:"environment"` // "development" or "production".
	Verbose        bool      `yaml:"verbose"`
	ColorMode      ColorMode `yaml:"color"`
	LogFile        string    `yaml:"log_file"`
}

// DefaultServerConfig returns the built-in web server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:     ":8080",
		FFmpegPath:  "ffmpeg",
		MaxUploadMB: 512,
		Environment: "development",
		ColorMode:   ColorAuto,
	}
}

// LoadServerConfig builds a ServerConfig from defaults, the YAML file at path
// (skipped when path is empty) and environment overrides, then validates it.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		// #nosec G304 - config path is supplied by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays AUDIOCONVERT_* environment variables onto cfg.
func applyEnv(cfg *ServerConfig) error {
	cfg.Address = getEnv("AUDIOCONVERT_ADDRESS", cfg.Address)
	cfg.FFmpegPath = getEnv("AUDIOCONVERT_FFMPEG_PATH", cfg.FFmpegPath)
	cfg.TempDir = getEnv("AUDIOCONVERT_TEMP_DIR", cfg.TempDir)
	cfg.Environment = getEnv("AUDIOCONVERT_ENV", cfg.Environment)
	cfg.LogFile = getEnv("AUDIOCONVERT_LOG_FILE", cfg.LogFile)
	cfg.ColorMode = ColorMode(getEnv("AUDIOCONVERT_COLOR", string(cfg.ColorMode)))

	if v := getEnv("AUDIOCONVERT_ALLOWED_ORIGINS", ""); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := getEnv("AUDIOCONVERT_MAX_UPLOAD_MB", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("AUDIOCONVERT_MAX_UPLOAD_MB must be a whole number (got %q)", v)
		}
		cfg.MaxUploadMB = n
	}
	if v := getEnv("AUDIOCONVERT_VERBOSE", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUDIOCONVERT_VERBOSE must be a boolean (got %q)", v)
		}
		cfg.Verbose = b
	}
	return nil
}

// Validate checks the server settings for obviously broken values.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return errors.New("server address must not be empty")
	}
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive (got %d MB)", c.MaxUploadMB)
	}
	if c.MaxUploadMB > maxUploadMB {
		return fmt.Errorf("max upload size too large (got %d MB, limit %d MB)", c.MaxUploadMB, int64(maxUploadMB))
	}
	switch c.Environment {
	case "development", "production":
		// valid
	default:
		return fmt.Errorf("invalid environment %q (use 'development' or 'production')", c.Environment)
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	return nil
}

// maxUploadMB is the largest cap whose byte count still fits in an int64.
const maxUploadMB = math.MaxInt64 >> 20

// MaxUploadBytes returns the per-request upload cap in bytes.
func (c *ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
