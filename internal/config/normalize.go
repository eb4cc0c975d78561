package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subtitlecat/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLibrary()
	c.normalizeLanguages()
	c.normalizeTranslation()
	c.normalizeLogging()
	c.normalizeSession()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		if value, ok := os.LookupEnv("SUBTITLECAT_LIBRARY_DIR"); ok {
			c.Paths.LibraryDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.APIKeysFile) == "" {
		c.Paths.APIKeysFile = defaultAPIKeysFile
	}
	if c.Paths.APIKeysFile, err = expandPath(c.Paths.APIKeysFile); err != nil {
		return fmt.Errorf("paths.api_keys_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.StateDir, defaultHistoryDBName)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	if c.Tools.TimeoutSeconds < 0 {
		c.Tools.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeLibrary() {
	c.Library.VideoExtensions = normalizeExtensions(c.Library.VideoExtensions, defaultVideoExtensions)
	c.Library.SubtitleExtensions = normalizeExtensions(c.Library.SubtitleExtensions, defaultSubtitleExtensions)
}

func normalizeExtensions(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func (c *Config) normalizeLanguages() {
	tags := make([]string, 0, len(c.Languages.Default))
	seen := make(map[string]struct{}, len(c.Languages.Default))
	for _, tag := range c.Languages.Default {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		tags = append(tags, normalized)
	}
	c.Languages.Default = tags

	c.Languages.Target = strings.TrimSpace(c.Languages.Target)
	if c.Languages.Target == "" {
		c.Languages.Target = defaultTargetLanguage
	}
	if target, ok := language.LookupTarget(c.Languages.Target); ok {
		c.Languages.Target = target.Name
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		if value, ok := os.LookupEnv("GEMINI_MODEL"); ok && strings.TrimSpace(value) != "" {
			c.Translation.Model = strings.TrimSpace(value)
		} else {
			c.Translation.Model = defaultGeminiModel
		}
	}
	if c.Translation.BatchSize <= 0 {
		c.Translation.BatchSize = defaultBatchSize
	}
	if c.Translation.RequestTimeoutSeconds <= 0 {
		c.Translation.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.DisplayLines <= 0 {
		c.Logging.DisplayLines = defaultDisplayLines
	}
}

func (c *Config) normalizeSession() {
	if c.Session.DrainIntervalMS <= 0 {
		c.Session.DrainIntervalMS = defaultDrainIntervalMS
	}
	if c.Session.DrainBatch <= 0 {
		c.Session.DrainBatch = defaultDrainBatch
	}
}
