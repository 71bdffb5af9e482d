package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001.sql"),
		[]byte("-- migrate:up\nCREATE TABLE t;\n-- migrate:down\nDROP TABLE t;"), 0o644))

	ui := cli.NewMockUi()
	cmd := &SplitCommand{Ui: ui}

	code := cmd.Run([]string{dir})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), filepath.Join(dir, "001"))

	up, err := os.ReadFile(filepath.Join(dir, "001", "up.sql"))
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t;", string(up))
}

func TestSplitCommand_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001.sql"), []byte("CREATE TABLE t;"), 0o644))

	ui := cli.NewMockUi()
	cmd := &SplitCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{"-fail-fast", dir}))
	assert.Contains(t, ui.ErrorWriter.String(), "missing down marker")
	assert.NoDirExists(t, filepath.Join(dir, "001"))
}

func TestSplitCommand_OptionsAfterDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001.sql"), []byte("CREATE TABLE t;"), 0o644))

	ui := cli.NewMockUi()
	cmd := &SplitCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{dir, "-fail-fast"}))
	assert.Contains(t, ui.ErrorWriter.String(), "too many arguments: -fail-fast")
	assert.NoDirExists(t, filepath.Join(dir, "001"))
}

func TestSplitCommand_BadMarkers(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &SplitCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{"-markers", "flyway", t.TempDir()}))
	assert.Contains(t, ui.ErrorWriter.String(), "unknown marker set")
}

func TestVerifyCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "001"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001", "up.sql"), []byte("CREATE TABLE t (id INTEGER);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001", "down.sql"), []byte("DROP TABLE t;"), 0o644))

	ui := cli.NewMockUi()
	cmd := &VerifyCommand{Ui: ui}

	code := cmd.Run([]string{"-driver", "sqlite3", "-dsn", "file:cmd_test.db?cache=shared&mode=memory", dir})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "ok 001")
}

func TestVerifyCommand_OptionsAfterDir(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &VerifyCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{"-driver", "sqlite3", t.TempDir(), "-dsn", "x"}))
	assert.Contains(t, ui.ErrorWriter.String(), "too many arguments")
}

func TestVerifyCommand_HelpMentionsMySQLMultiStatements(t *testing.T) {
	cmd := &VerifyCommand{Ui: cli.NewMockUi()}
	assert.Contains(t, cmd.Help(), "multiStatements=true")
}

func TestVerifyCommand_RequiresDSN(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &VerifyCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{"-driver", "sqlite3", t.TempDir()}))
	assert.Contains(t, ui.ErrorWriter.String(), "dsn is required")
}

func TestVerifyCommand_UnknownDriver(t *testing.T) {
	ui := cli.NewMockUi()
	cmd := &VerifyCommand{Ui: ui}

	assert.Equal(t, 1, cmd.Run([]string{"-driver", "oracle", "-dsn", "x"}))
	assert.Contains(t, ui.ErrorWriter.String(), "unsupported driver")
}

func TestRun_UnknownCommand(t *testing.T) {
	assert.NotEqual(t, 0, run([]string{"frobnicate"}))
}
