package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

// setupWorkDir isolates HOME and the working directory so no user config is read.
func setupWorkDir(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TSVMEND_LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "1")
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeUTF16LE(t *testing.T, path, content string) {
	t.Helper()
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(content)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))
}

func TestDefaultRunRepairsWorkingDirectory(t *testing.T) {
	work := setupWorkDir(t)
	writeUTF16LE(t, filepath.Join(work, "data.tsv"), "a\tb\tc\td\r\ne\tf\r\n")

	out, _, err := runCLI(t)
	require.NoError(t, err)
	assert.Equal(t, statusSuccess+"\n", out)

	got, err := os.ReadFile(filepath.Join(work, "dataOut.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\td'\\n'e\tf\t\n", string(got))
}

func TestMissingInputExitsWithUsage(t *testing.T) {
	work := setupWorkDir(t)

	out, _, err := runCLI(t)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	want, err := filepath.Abs(filepath.Join(work, "data.tsv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Input file does not exist: ")
	assert.Contains(t, out, filepath.Base(want))
	assert.NotContains(t, out, statusFailure)

	_, statErr := os.Stat(filepath.Join(work, "dataOut.tsv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestOverflowReportsFailure(t *testing.T) {
	work := setupWorkDir(t)
	writeUTF16LE(t, filepath.Join(work, "data.tsv"), "a\tb\tc\nd\te\tf\tg\n")

	out, stderr, err := runCLI(t)
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, out, statusFailure)
	assert.Contains(t, stderr, "too many fields")
}

func TestFlagsAndStatsTable(t *testing.T) {
	work := setupWorkDir(t)
	in := filepath.Join(work, "in.txt")
	outPath := filepath.Join(work, "nested.txt")
	require.NoError(t, os.WriteFile(in, []byte("x\ty\nz\tw\n1\t2\t3\n4\n"), 0o644))

	out, _, err := runCLI(t,
		"-i", in, "-o", outPath,
		"--from", "utf-8", "--to", "utf-8",
		"--columns", "3", "--flush-partial", "--stats",
	)
	require.NoError(t, err)
	assert.Contains(t, out, statusSuccess)
	assert.Contains(t, out, "Records written")
	assert.Contains(t, out, "Trailing record flushed")

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "x\ty'\\n'z\tw\t\n1\t2\t3\t\n4\t\t\t\n", string(got))
}

func TestInvalidFlagValueIsUsageError(t *testing.T) {
	setupWorkDir(t)

	_, _, err := runCLI(t, "--columns", "0")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
	assert.Contains(t, err.Error(), "format.columns")

	_, _, err = runCLI(t, "--to", "no-such-charset")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestPositionalArgumentsRejected(t *testing.T) {
	setupWorkDir(t)

	_, _, err := runCLI(t, "data.tsv")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestProjectConfigFile(t *testing.T) {
	work := setupWorkDir(t)
	config := "[files]\ninput = \"raw.tsv\"\noutput = \"fixed.tsv\"\n\n[encoding]\ninput = \"utf-8\"\n\n[format]\nline_ending = \"crlf\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(work, "tsvmend.toml"), []byte(config), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(work, "raw.tsv"), []byte("a\tb\tc\td\te\n"), 0o644))

	out, _, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, statusSuccess)

	got, err := os.ReadFile(filepath.Join(work, "fixed.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "a\tb\tc\td\te\t\r\n", string(got))
}

func TestConfigInitAndValidate(t *testing.T) {
	work := setupWorkDir(t)
	target := filepath.Join(work, "conf", "tsvmend.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	require.FileExists(t, target)

	_, _, err = runCLI(t, "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "config", "init", "--path", target, "--overwrite")
	require.NoError(t, err)

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+target)
	assert.Contains(t, out, "format.columns")
	assert.Contains(t, out, "Configuration valid")
	assert.NotContains(t, out, "defaults were used")
}

func TestConfigValidateWithoutFile(t *testing.T) {
	setupWorkDir(t)

	out, _, err := runCLI(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults were used")
	assert.Contains(t, out, "utf-16le")
}

func TestVersionCommand(t *testing.T) {
	setupWorkDir(t)

	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tsvmend ")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUsage, exitCode(errors.New("bad flag")))
	assert.Equal(t, exitFailure, exitCode(&exitError{code: exitFailure}))
	assert.Equal(t, "exit status 2", (&exitError{code: exitFailure}).Error())
}
