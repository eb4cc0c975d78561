package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subtitlecat/internal/config"
	"subtitlecat/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// resolveRoot picks the directory argument or the configured library dir.
func (c *commandContext) resolveRoot(args []string) (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(strings.TrimSpace(args[0]))
	}
	if cfg.Paths.LibraryDir != "" {
		return cfg.Paths.LibraryDir, nil
	}
	return "", services.Wrap(services.ErrValidation, "cli", "resolve directory",
		"no directory given; pass one or set paths.library_dir", nil)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
