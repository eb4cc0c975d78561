package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	LibraryDir  string `toml:"library_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
	APIKeysFile string `toml:"api_keys_file"`
	HistoryDB   string `toml:"history_db"`
}

// Tools names the external media binaries.
type Tools struct {
	FFprobe        string `toml:"ffprobe"`
	FFmpeg         string `toml:"ffmpeg"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Library controls how a root directory is classified during scans.
type Library struct {
	VideoExtensions    []string `toml:"video_extensions"`
	SubtitleExtensions []string `toml:"subtitle_extensions"`
}

// Languages seeds the default-language policy and the translation target.
type Languages struct {
	// Default seeds the auto-selection set for the process. It is never
	// written back; operators change it at runtime.
	Default []string `toml:"default"`
	Target  string   `toml:"target"`
}

// Translation configures the Gemini translation collaborator.
type Translation struct {
	Model                 string `toml:"model"`
	BatchSize             int    `toml:"batch_size"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	SkipExisting          bool   `toml:"skip_existing"`
	DropAds               bool   `toml:"drop_ads"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format       string `toml:"format"`
	Level        string `toml:"level"`
	DisplayLines int    `toml:"display_lines"`
	File         bool   `toml:"file"`
}

// Session tunes the interactive drain loop.
type Session struct {
	DrainIntervalMS int `toml:"drain_interval_ms"`
	DrainBatch      int `toml:"drain_batch"`
}

// History toggles the sqlite run history.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for SubtitleCat.
//
// Configuration sections by subsystem:
//   - Paths: library root, state/log directories, key store and history files
//   - Tools: ffprobe/ffmpeg binaries and per-invocation timeout
//   - Library: extensions classified as video or subtitle
//   - Languages: default-language seed and translation target
//   - Translation: Gemini model and batching
//   - Logging: log format, level, and on-screen rolling window
//   - Session: interactive drain interval and batch
//   - History: run history persistence
type Config struct {
	Paths       Paths       `toml:"paths"`
	Tools       Tools       `toml:"tools"`
	Library     Library     `toml:"library"`
	Languages   Languages   `toml:"languages"`
	Translation Translation `toml:"translation"`
	Logging     Logging     `toml:"logging"`
	Session     Session     `toml:"session"`
	History     History     `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subtitlecat.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories plus the parent of
// the key store file. The library root is never created.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir, filepath.Dir(c.Paths.APIKeysFile)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable used for stream probing.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobe
}

// FFmpegBinary returns the ffmpeg executable used for extraction.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return defaultFFmpeg
}

// ToolTimeout bounds a single ffprobe/ffmpeg invocation. Zero disables the bound.
func (c *Config) ToolTimeout() time.Duration {
	if c.Tools.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// DrainInterval returns the interactive log drain period.
func (c *Config) DrainInterval() time.Duration {
	return time.Duration(c.Session.DrainIntervalMS) * time.Millisecond
}

// LockPath returns the advisory lock guarding the interactive session.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "session.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
