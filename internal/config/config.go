package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/oleg578/tsvmend"
)

//go:embed sample_config.toml
var sampleConfig string

// Files names the input and output paths. Relative paths resolve against the working directory.
type Files struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// Encoding names the character encodings of the input and output files.
type Encoding struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// Format describes the record layout and how repaired records are written.
type Format struct {
	Columns        int    `toml:"columns"`
	Delimiter      string `toml:"delimiter"`
	Marker         string `toml:"marker"`
	Split          string `toml:"split"`
	LineEnding     string `toml:"line_ending"`
	FlushPartial   bool   `toml:"flush_partial"`
	SkipBlankLines bool   `toml:"skip_blank_lines"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for tsvmend.
type Config struct {
	Files    Files    `toml:"files"`
	Encoding Encoding `toml:"encoding"`
	Format   Format   `toml:"format"`
	Logging  Logging  `toml:"logging"`
}

// Overrides carries command-line values that replace file settings. Empty
// strings, zero Columns, and nil pointers leave the loaded value untouched.
type Overrides struct {
	Input          string
	Output         string
	InputEncoding  string
	OutputEncoding string
	Columns        int
	FlushPartial   *bool
	TrimTrailing   *bool
	SkipBlankLines *bool
	LogLevel       string
	LogFormat      string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tsvmend/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error: defaults apply
// and the returned bool reports false.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tsvmend.toml")
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

// Apply merges command-line overrides into the config, then normalizes and validates it again.
func (c *Config) Apply(o Overrides) error {
	if o.Input != "" {
		c.Files.Input = o.Input
	}
	if o.Output != "" {
		c.Files.Output = o.Output
	}
	if o.InputEncoding != "" {
		c.Encoding.Input = o.InputEncoding
	}
	if o.OutputEncoding != "" {
		c.Encoding.Output = o.OutputEncoding
	}
	if o.Columns != 0 {
		c.Format.Columns = o.Columns
	}
	if o.FlushPartial != nil {
		c.Format.FlushPartial = *o.FlushPartial
	}
	if o.TrimTrailing != nil {
		if *o.TrimTrailing {
			c.Format.Split = tsvmend.SplitTrimTrailing.String()
		} else {
			c.Format.Split = tsvmend.SplitPreserve.String()
		}
	}
	if o.SkipBlankLines != nil {
		c.Format.SkipBlankLines = *o.SkipBlankLines
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// RepairOptions converts the format section into options for a repair pass.
// The config must already be validated.
func (c *Config) RepairOptions() tsvmend.Options {
	split, _ := tsvmend.ParseSplitMode(c.Format.Split)
	return tsvmend.Options{
		ReassemblerOptions: tsvmend.ReassemblerOptions{
			Columns:        c.Format.Columns,
			Delimiter:      c.Format.Delimiter[0],
			Marker:         c.Format.Marker,
			Split:          split,
			SkipBlankLines: c.Format.SkipBlankLines,
		},
		UseCRLF:      useCRLF(c.Format.LineEnding, runtime.GOOS),
		FlushPartial: c.Format.FlushPartial,
	}
}

func useCRLF(lineEnding, goos string) bool {
	switch lineEnding {
	case LineEndingCRLF:
		return true
	case LineEndingLF:
		return false
	default:
		return goos == "windows"
	}
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
