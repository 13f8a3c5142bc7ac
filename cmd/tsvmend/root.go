package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/oleg578/tsvmend/internal/config"
	"github.com/oleg578/tsvmend/internal/driver"
	"github.com/oleg578/tsvmend/internal/logging"
)

const (
	statusSuccess = "Formatting Success"
	statusFailure = "Formatting Failure"
)

type repairFlags struct {
	input          string
	output         string
	from           string
	to             string
	columns        int
	flushPartial   bool
	trimTrailing   bool
	skipBlankLines bool
	stats          bool
	logLevel       string
	logFormat      string
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags repairFlags

	rootCmd := &cobra.Command{
		Use:           "tsvmend",
		Short:         "Repair TSV files whose fields contain unescaped line breaks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, strings.TrimSpace(configFlag), flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")

	f := rootCmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "Input file (default data.tsv in the working directory)")
	f.StringVarP(&flags.output, "output", "o", "", "Output file (default dataOut.tsv in the working directory)")
	f.StringVar(&flags.from, "from", "", "Input encoding (default utf-16le)")
	f.StringVar(&flags.to, "to", "", "Output encoding (default utf-8)")
	f.IntVar(&flags.columns, "columns", 0, "Fields per record (default 5)")
	f.BoolVar(&flags.flushPartial, "flush-partial", false, "Write an incomplete trailing record padded with empty fields")
	f.BoolVar(&flags.trimTrailing, "trim-trailing", false, "Drop trailing empty fields when splitting lines")
	f.BoolVar(&flags.skipBlankLines, "skip-blank-lines", false, "Ignore empty lines between records")
	f.BoolVar(&flags.stats, "stats", false, "Print pass counters after the run")

	rootCmd.AddCommand(newConfigCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (f repairFlags) overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		Input:          f.input,
		Output:         f.output,
		InputEncoding:  f.from,
		OutputEncoding: f.to,
		LogLevel:       f.logLevel,
		LogFormat:      f.logFormat,
	}
	changed := cmd.Flags().Changed
	if changed("columns") {
		o.Columns = f.columns
		if o.Columns == 0 {
			// Zero means "unset" to Apply; keep it visible to Validate.
			o.Columns = -1
		}
	}
	if changed("flush-partial") {
		o.FlushPartial = boolPtr(f.flushPartial)
	}
	if changed("trim-trailing") {
		o.TrimTrailing = boolPtr(f.trimTrailing)
	}
	if changed("skip-blank-lines") {
		o.SkipBlankLines = boolPtr(f.skipBlankLines)
	}
	return o
}

func boolPtr(v bool) *bool { return &v }

func runRepair(cmd *cobra.Command, configPath string, flags repairFlags) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Apply(flags.overrides(cmd)); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	logger, closeLog, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()
	logger = logger.With(slog.String(logging.FieldRunID, uuid.NewString()))

	out := cmd.OutOrStdout()
	stats, err := driver.Run(driver.Job{
		Input:          cfg.Files.Input,
		Output:         cfg.Files.Output,
		InputEncoding:  cfg.Encoding.Input,
		OutputEncoding: cfg.Encoding.Output,
		Options:        cfg.RepairOptions(),
	}, logger)

	if errors.Is(err, driver.ErrInputNotFound) {
		fmt.Fprintf(out, "Input file does not exist: %s\n", cfg.Files.Input)
		return &exitError{code: exitUsage, err: err}
	}
	if err != nil {
		logger.Error("repair failed", slog.Any("error", err))
		fmt.Fprintf(cmd.ErrOrStderr(), "tsvmend: %v\n", err)
		writeStatus(out, statusFailure, false)
		if flags.stats {
			fmt.Fprintln(out, renderStats(stats))
		}
		return &exitError{code: exitFailure, err: err}
	}

	writeStatus(out, statusSuccess, true)
	if flags.stats {
		fmt.Fprintln(out, renderStats(stats))
	}
	return nil
}
