package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/src/cli"
	"outliner/src/editor"
	"outliner/src/events"
	"outliner/src/logging"
	"outliner/src/spellcheck"
	"outliner/src/store"
	"outliner/src/workspace"
)

type harness struct {
	dispatcher *cli.Dispatcher
	session    *workspace.Session
	store      *store.Store
	tracing    *logging.Manager
	output     *bytes.Buffer
	commands   []string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	h := &harness{output: &bytes.Buffer{}}
	bus := events.NewBus()
	bus.Subscribe(events.ListenerFunc(func(e events.Event) {
		if e.Type == events.EventCommandExecuted {
			h.commands = append(h.commands, e.Command)
		}
	}))
	h.tracing = logging.NewManager(nil)
	bus.Subscribe(h.tracing)
	h.store = store.New(store.DataDir(t.TempDir()))
	h.session = workspace.NewSession(h.store, workspace.WithBus(bus))
	require.NoError(t, h.session.Restore())
	console := cli.NewConsole(strings.NewReader(input), h.output)
	h.dispatcher = cli.NewDispatcher(h.session, console, h.tracing, spellcheck.NewService(spellcheck.NewDictionaryChecker()))
	return h
}

func (h *harness) run(t *testing.T, commands ...string) {
	t.Helper()
	for _, c := range commands {
		require.NoError(t, h.dispatcher.Execute(c), c)
	}
}

func TestDispatcherBuildsOutline(t *testing.T) {
	h := newHarness(t, "")
	h.run(t,
		`edit Plan`,
		`add-child first item`,
		`add-sibling "second item"`,
		`color pink`,
		`go prev`,
		`add-child nested`,
		`tree`,
	)
	assert.Contains(t, h.output.String(), strings.Join([]string{
		"  Plan",
		"  ├── first item",
		"* │   └── nested",
		"  └── second item [pink]",
	}, "\n"))
	assert.Equal(t, []string{"edit", "add-child", "add-sibling", "color", "go", "add-child", "tree"}, h.commands)
}

func TestDispatcherUndoRedo(t *testing.T) {
	h := newHarness(t, "")
	h.run(t, "add-child one", "undo")
	ed, err := h.session.Active()
	require.NoError(t, err)
	assert.Len(t, ed.State().Nodes, 1)

	h.run(t, "redo")
	assert.Len(t, ed.State().Nodes, 2)

	assert.ErrorIs(t, h.dispatcher.Execute("redo"), editor.ErrNothingToRedo)
}

func TestDispatcherReportsErrors(t *testing.T) {
	h := newHarness(t, "")
	assert.Error(t, h.dispatcher.Execute("delete"), "the root cannot be deleted")
	assert.Error(t, h.dispatcher.Execute("undo"))
	assert.Error(t, h.dispatcher.Execute("color purple"))
	assert.Error(t, h.dispatcher.Execute("go sideways"))
	assert.Error(t, h.dispatcher.Execute("bogus"))
	assert.Error(t, h.dispatcher.Execute(`edit "unterminated`))
	assert.Empty(t, h.commands, "failed commands are not published")
	assert.False(t, h.session.Dirty())
}

func TestDispatcherSearchAndJump(t *testing.T) {
	h := newHarness(t, "")
	h.run(t, "add-child alpha task", "add-sibling beta task", "go parent")
	h.run(t, "search TASK")
	out := h.output.String()
	assert.Contains(t, out, "1. alpha task  (Path: Untitled)")
	assert.Contains(t, out, "2. beta task  (Path: Untitled)")

	h.run(t, "jump 2")
	ed, _ := h.session.Active()
	cursor, _ := ed.Cursor()
	assert.Equal(t, "beta task", cursor.Text)

	assert.Error(t, h.dispatcher.Execute("jump 3"))
	h.run(t, "new other")
	assert.Error(t, h.dispatcher.Execute("jump 1"), "results belong to another document")
}

func TestDispatcherSearchFallsBackToSimilar(t *testing.T) {
	h := newHarness(t, "")
	h.run(t, "add-child groceries", "search grocerys")
	assert.Contains(t, h.output.String(), "相似结果")
	assert.Contains(t, h.output.String(), "1. groceries")
}

func TestDispatcherSpell(t *testing.T) {
	h := newHarness(t, "")
	h.run(t, "edit Please recieve updates", "spell")
	assert.Contains(t, h.output.String(), `"recieve" -> 建议: receive`)
}

func TestDispatcherTabsAndClose(t *testing.T) {
	h := newHarness(t, "n\ny\n")
	h.run(t, "new Second", "tabs")
	assert.Contains(t, h.output.String(), "* 2 Second")

	h.run(t, "close")
	assert.Len(t, h.session.Tabs(), 2, "declined")
	h.run(t, "close 2")
	assert.Len(t, h.session.Tabs(), 1)

	err := h.dispatcher.Execute("close")
	assert.ErrorIs(t, err, workspace.ErrLastTab)
	assert.Error(t, h.dispatcher.Execute("switch 5"))
}

func TestDispatcherLogToggle(t *testing.T) {
	h := newHarness(t, "")
	h.run(t, "log on")
	assert.True(t, h.tracing.Enabled(h.session.ActiveID()))
	h.run(t, "log off")
	assert.False(t, h.tracing.Enabled(h.session.ActiveID()))
}

func TestDispatcherSaveAndExit(t *testing.T) {
	h := newHarness(t, "edit persisted\nexit\n")
	require.NoError(t, h.dispatcher.Run())
	assert.Contains(t, h.output.String(), "已退出")

	reloaded, err := h.store.Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	doc := reloaded.Documents[reloaded.ActiveDocID]
	assert.Equal(t, "persisted", doc.Nodes[doc.RootID].Text)
}

func TestDispatcherRunSavesOnEOF(t *testing.T) {
	h := newHarness(t, "new Draft\n")
	require.NoError(t, h.dispatcher.Run())
	reloaded, err := h.store.Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Len(t, reloaded.Tabs, 2)
}
