package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeFiles(); err != nil {
		return err
	}
	c.normalizeEncoding()
	c.normalizeFormat()
	return c.normalizeLogging()
}

func (c *Config) normalizeFiles() error {
	var err error
	if c.Files.Input, err = expandPath(strings.TrimSpace(c.Files.Input)); err != nil {
		return fmt.Errorf("files.input: %w", err)
	}
	if c.Files.Output, err = expandPath(strings.TrimSpace(c.Files.Output)); err != nil {
		return fmt.Errorf("files.output: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoding() {
	c.Encoding.Input = strings.ToLower(strings.TrimSpace(c.Encoding.Input))
	if c.Encoding.Input == "" {
		c.Encoding.Input = defaultInputEncoding
	}
	c.Encoding.Output = strings.ToLower(strings.TrimSpace(c.Encoding.Output))
	if c.Encoding.Output == "" {
		c.Encoding.Output = defaultOutputEncoding
	}
}

func (c *Config) normalizeFormat() {
	c.Format.Split = strings.ToLower(strings.TrimSpace(c.Format.Split))
	if c.Format.Split == "" {
		c.Format.Split = defaultSplit
	}
	c.Format.LineEnding = strings.ToLower(strings.TrimSpace(c.Format.LineEnding))
	if c.Format.LineEnding == "" {
		c.Format.LineEnding = defaultLineEnding
	}
}

// applyEnv overlays environment settings. It runs once per Load, before flags are applied.
func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
