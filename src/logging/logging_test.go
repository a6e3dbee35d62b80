package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"outliner/src/config"
	"outliner/src/events"
	"outliner/src/logging"
)

func TestManagerLogsCommandsForTracedDocuments(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mgr := logging.NewManager(zap.New(core))
	mgr.Enable("doc-1")

	mgr.Handle(events.Event{
		Type:      events.EventCommandExecuted,
		Command:   "edit",
		Raw:       "edit hello",
		DocID:     "doc-1",
		Timestamp: time.Now(),
	})
	mgr.Handle(events.Event{Type: events.EventCommandExecuted, Command: "edit", DocID: "doc-2"})

	commands := logs.FilterMessage("command").All()
	require.Len(t, commands, 1)
	assert.Equal(t, "edit hello", commands[0].ContextMap()["raw"])
	assert.Equal(t, []string{"doc-1"}, mgr.ActiveDocs())
}

func TestManagerEnableDisable(t *testing.T) {
	mgr := logging.NewManager(nil)
	mgr.Enable("a")
	assert.True(t, mgr.Enabled("a"))
	mgr.Disable("a")
	assert.False(t, mgr.Enabled("a"))
	assert.Empty(t, mgr.ActiveDocs())
}

func TestManagerWarnsOnQuarantine(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mgr := logging.NewManager(zap.New(core))
	mgr.Handle(events.Event{
		Type:     events.EventWorkspaceQuarantined,
		Metadata: map[string]string{"backup": "/tmp/workspace.json.broken-1"},
	})
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/tmp/workspace.json.broken-1", entries[0].ContextMap()["backup"])
}

func TestNewWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "outliner.log")
	logger, err := logging.New(config.Log{Level: "debug", File: file, MaxSizeMB: 1})
	require.NoError(t, err)
	logger.Info("hello", zap.String("k", "v"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewFallsBackWhenLogDirectoryIsUnusable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	logger, err := logging.New(config.Log{Level: "info", File: filepath.Join(blocker, "logs", "outliner.log"), MaxSizeMB: 1})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), "only warnings reach stderr")
	_, err = os.Stat(filepath.Join(blocker, "logs"))
	assert.Error(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logging.New(config.Log{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := logging.New(config.Log{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestManagerStopsTracingClosedDocuments(t *testing.T) {
	mgr := logging.NewManager(nil)
	mgr.Enable("doc-1")
	mgr.Handle(events.Event{Type: events.EventDocumentClosed, DocID: "doc-1"})
	assert.False(t, mgr.Enabled("doc-1"))
}
