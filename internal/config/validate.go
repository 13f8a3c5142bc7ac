package config

import (
	"errors"
	"fmt"

	"github.com/oleg578/tsvmend"
	"github.com/oleg578/tsvmend/internal/charset"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFiles(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateFormat(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFiles() error {
	if c.Files.Input == "" {
		return errors.New("files.input must be set")
	}
	if c.Files.Output == "" {
		return errors.New("files.output must be set")
	}
	if c.Files.Input == c.Files.Output {
		return fmt.Errorf("files.output must differ from files.input (%s)", c.Files.Input)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if _, err := charset.Lookup(c.Encoding.Input); err != nil {
		return fmt.Errorf("encoding.input: %w", err)
	}
	if _, err := charset.Lookup(c.Encoding.Output); err != nil {
		return fmt.Errorf("encoding.output: %w", err)
	}
	return nil
}

func (c *Config) validateFormat() error {
	if c.Format.Columns < 1 {
		return fmt.Errorf("format.columns must be at least 1, got %d", c.Format.Columns)
	}
	if len(c.Format.Delimiter) != 1 {
		return fmt.Errorf("format.delimiter must be a single byte, got %q", c.Format.Delimiter)
	}
	if d := c.Format.Delimiter[0]; d == '\n' || d == '\r' {
		return errors.New("format.delimiter cannot be a line terminator")
	}
	if c.Format.Marker == "" {
		return errors.New("format.marker must not be empty")
	}
	if _, err := tsvmend.ParseSplitMode(c.Format.Split); err != nil {
		return fmt.Errorf("format.split: %w", err)
	}
	switch c.Format.LineEnding {
	case LineEndingNative, LineEndingLF, LineEndingCRLF:
	default:
		return fmt.Errorf("format.line_ending must be one of native, lf, crlf; got %q", c.Format.LineEnding)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
	return nil
}
