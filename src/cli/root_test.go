package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/src/cli"
	"outliner/src/config"
	"outliner/src/model"
	"outliner/src/store"
)

func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := cli.NewRootCommand(strings.NewReader(input), out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeWorkspace(t *testing.T, dir string, ws model.Workspace) {
	t.Helper()
	data, err := store.Encode(ws)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.FileName), data, 0o644))
}

func TestPathCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runRoot(t, "", "path", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, store.FileName)+"\n", out)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runRoot(t, "", "check", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no workspace file")

	ws := model.NewWorkspace()
	ws.Open(model.NewDocument("fine"))
	writeWorkspace(t, dir, ws)
	out, err = runRoot(t, "", "check", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 1 document(s), 1 tab(s)")

	ws.ActiveDocID = "ghost"
	writeWorkspace(t, dir, ws)
	out, err = runRoot(t, "", "check", "--data-dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "ghost")
}

func TestCheckDoesNotCreateDataDir(t *testing.T) {
	t.Setenv(config.EnvLogFile, filepath.Join(t.TempDir(), "outliner.log"))
	dir := filepath.Join(t.TempDir(), "missing")

	out, err := runRoot(t, "", "check", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no workspace file")
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckDoesNotQuarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, store.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := runRoot(t, "", "check", "--data-dir", dir)
	assert.ErrorIs(t, err, store.ErrDecode)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	ws := model.NewWorkspace()
	doc := model.NewDocument("Groceries")
	ws.Open(doc)
	writeWorkspace(t, dir, ws)

	out, err := runRoot(t, "", "dump", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+doc.ID+"\n* Groceries")
}

func TestReplPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	_, err := runRoot(t, "edit Journal\nadd-child today\nexit\n", "--data-dir", dir, "--log-level", "debug")
	require.NoError(t, err)

	out, err := runRoot(t, "tree\nexit\n", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "  Journal\n* └── today")

	logFile := filepath.Join(dir, "logs", "outliner.log")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workspace restored")
}

func TestReplQuarantinesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, store.FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	out, err := runRoot(t, "tabs\nexit\n", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "* 1 Untitled")

	matches, err := filepath.Glob(path + ".broken-*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestReplRunsWithoutUsableDataDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	out, err := runRoot(t, "tabs\nexit\n", "--data-dir", filepath.Join(blocker, "sub"))
	require.NoError(t, err)
	assert.Contains(t, out, "无法使用数据目录，本次修改不会被保存")
	assert.Contains(t, out, "* 1 Untitled")
	assert.Contains(t, out, "已退出")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runRoot(t, "", "path", "--data-dir", t.TempDir(), "--log-level", "chatty")
	assert.Error(t, err)
}
