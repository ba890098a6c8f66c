// Package config loads the service configuration from YAML, applying
// defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures server, workspace, tool, and output settings.
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Video   VideoConfig  `yaml:"video"`
	Fetch   FetchConfig  `yaml:"fetch"`
	Tools   ToolsConfig  `yaml:"tools"`
	WorkDir string       `yaml:"work_dir"`
	Log     LogConfig    `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// VideoConfig contains the default output raster and encoder settings.
type VideoConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Codec   string `yaml:"codec"`
	Preset  string `yaml:"preset"`
	CRF     int    `yaml:"crf"`
	ACodec  string `yaml:"acodec"`
	Bitrate int    `yaml:"audio_bitrate_kbps"`
}

// FetchConfig bounds remote asset downloads.
type FetchConfig struct {
	TimeoutSeconds int   `yaml:"timeout_s"`
	MaxBytes       int64 `yaml:"max_bytes"`
}

// ToolsConfig points at the external binaries. Empty values fall back to
// PATH lookup.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the baseline configuration for vertical short-form output.
func Default() Config {
	return Config{
		Version: 1,
		Server:  ServerConfig{Addr: ":8080"},
		Video: VideoConfig{
			Width:   1080,
			Height:  1920,
			FPS:     30,
			Codec:   "libx264",
			Preset:  "veryfast",
			CRF:     23,
			ACodec:  "aac",
			Bitrate: 192,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
			MaxBytes:       64 << 20,
		},
		Tools:   ToolsConfig{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		WorkDir: os.TempDir(),
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise
// returns the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the renderer cannot work with.
func (c Config) Validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("invalid video dimensions %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("invalid video fps %d", c.Video.FPS)
	}
	if c.Server.Addr == "" {
		return errors.New("server addr is empty")
	}
	return nil
}
