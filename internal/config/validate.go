package config

import (
	"errors"
	"fmt"
	"strings"

	"subtitlecat/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateSession()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIKeysFile) == "" {
		return errors.New("paths.api_keys_file must be set")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	for _, video := range c.Library.VideoExtensions {
		for _, sub := range c.Library.SubtitleExtensions {
			if video == sub {
				return fmt.Errorf("library: extension %q cannot be both video and subtitle", video)
			}
		}
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if _, ok := language.LookupTarget(c.Languages.Target); !ok {
		return fmt.Errorf("languages.target must be one of %s", strings.Join(language.TargetNames(), ", "))
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if c.Translation.BatchSize > 500 {
		return errors.New("translation.batch_size must be at most 500")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func (c *Config) validateSession() error {
	if c.Session.DrainBatch > c.Logging.DisplayLines {
		return errors.New("session.drain_batch must not exceed logging.display_lines")
	}
	return nil
}
