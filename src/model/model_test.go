package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner/src/model"
)

func sampleDocument() model.Document {
	return model.Document{
		ID:       "doc-1",
		RootID:   "r",
		CursorID: "c1",
		Nodes: map[string]model.Node{
			"r":  {ID: "r", Text: "", ChildrenIDs: []string{"c1"}},
			"c1": {ID: "c1", Text: "hello", ParentID: model.StringPtr("r"), ChildrenIDs: []string{}},
		},
		UndoStack: []model.DocumentState{},
		RedoStack: []model.DocumentState{},
	}
}

func TestNodeWireNames(t *testing.T) {
	node := model.Node{ID: "a", Text: "x < y", ParentID: model.StringPtr("r"), Color: model.StringPtr("blue")}
	data, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","text":"x < y","parentId":"r","childrenIds":[],"color":"blue"}`, string(data))
	assert.Contains(t, string(data), "x < y")
}

func TestNodeOptionalsEncodeAsNull(t *testing.T) {
	data, err := json.Marshal(model.Node{ID: "r"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r","text":"","parentId":null,"childrenIds":[],"color":null}`, string(data))
}

func TestNodeOptionalsMayBeAbsent(t *testing.T) {
	var node model.Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r","text":"t","childrenIds":["a"]}`), &node))
	assert.Nil(t, node.ParentID)
	assert.Nil(t, node.Color)
	assert.Equal(t, []string{"a"}, node.ChildrenIDs)
}

func TestDecodeRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"node text":       `{"id":"r","childrenIds":[]}`,
		"node children":   `{"id":"r","text":"","childrenIds":null}`,
		"node id null":    `{"id":null,"text":"","childrenIds":[]}`,
		"node wrong type": `{"id":1,"text":"","childrenIds":[]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var node model.Node
			assert.Error(t, json.Unmarshal([]byte(raw), &node))
		})
	}
}

func TestWorkspaceDecodeRequiresTopLevelFields(t *testing.T) {
	var ws model.Workspace
	err := json.Unmarshal([]byte(`{"tabs":[],"documents":{}}`), &ws)
	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "activeDocId", missing.Field)

	assert.Error(t, json.Unmarshal([]byte(`null`), &ws))
	assert.Error(t, json.Unmarshal([]byte(`{"tabs":[{}],"activeDocId":"","documents":{}}`), &ws))
}

func TestDocumentDecodeRequiresStacks(t *testing.T) {
	var doc model.Document
	err := json.Unmarshal([]byte(`{"id":"d","rootId":"r","cursorId":"r","nodes":{},"undoStack":[]}`), &doc)
	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "redoStack", missing.Field)
}

func TestWorkspaceRoundTrip(t *testing.T) {
	doc := sampleDocument()
	doc.UndoStack = append(doc.UndoStack, doc.State())
	ws := model.Workspace{
		Tabs:        []model.TabRef{{DocID: doc.ID}},
		ActiveDocID: doc.ID,
		Documents:   map[string]model.Document{doc.ID: doc},
	}
	data, err := json.Marshal(ws)
	require.NoError(t, err)

	var decoded model.Workspace
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, ws.Equal(decoded))
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	a := model.Workspace{}
	b := model.NewWorkspace()
	assert.True(t, a.Equal(b))

	n1 := model.Node{ID: "x"}
	n2 := model.Node{ID: "x", ChildrenIDs: []string{}}
	assert.True(t, n1.Equal(n2))
	n2.Color = model.StringPtr("gray")
	assert.False(t, n1.Equal(n2))
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()
	root := clone.Nodes["r"]
	root.ChildrenIDs[0] = "changed"
	assert.Equal(t, "c1", doc.Nodes["r"].ChildrenIDs[0])

	*clone.Nodes["c1"].ParentID = "other"
	assert.Equal(t, "r", *doc.Nodes["c1"].ParentID)
}

func TestStateAndRestore(t *testing.T) {
	doc := sampleDocument()
	state := doc.State()
	doc.CursorID = "r"
	delete(doc.Nodes, "c1")

	doc.Restore(state)
	assert.Equal(t, "c1", doc.CursorID)
	assert.Len(t, doc.Nodes, 2)
	assert.True(t, doc.State().Equal(state))
}

func TestNewDocument(t *testing.T) {
	doc := model.NewDocument("Inbox")
	require.Len(t, doc.Nodes, 1)
	root := doc.Nodes[doc.RootID]
	assert.Equal(t, "Inbox", root.Text)
	assert.True(t, root.IsRoot())
	assert.Equal(t, doc.RootID, doc.CursorID)
	assert.NotEqual(t, doc.ID, doc.RootID)
	assert.Empty(t, model.CheckState(doc.State()))
}

func TestOpenAddsTabAndFocuses(t *testing.T) {
	ws := model.NewWorkspace()
	doc := model.NewDocument("a")
	ws.Open(doc)
	assert.Equal(t, doc.ID, ws.ActiveDocID)
	assert.Equal(t, 0, ws.TabIndex(doc.ID))
	assert.Equal(t, -1, ws.TabIndex("missing"))
}

func TestCheckReportsDanglingReferences(t *testing.T) {
	doc := sampleDocument()
	doc.CursorID = "gone"
	child := doc.Nodes["c1"]
	child.ChildrenIDs = []string{"ghost"}
	doc.Nodes["c1"] = child
	ws := model.Workspace{
		Tabs:        []model.TabRef{{DocID: "missing"}},
		ActiveDocID: "doc-1",
		Documents:   map[string]model.Document{"doc-1": doc},
	}
	problems := model.Check(ws)
	var messages []string
	for _, p := range problems {
		messages = append(messages, p.String())
	}
	assert.Contains(t, messages, `tab 0 references unknown document "missing"`)
	assert.Contains(t, messages, `document doc-1: cursor "gone" does not exist`)
	assert.Contains(t, messages, `document doc-1, node c1: child "ghost" does not exist`)
}

func TestCheckDetectsCycle(t *testing.T) {
	state := model.DocumentState{
		RootID:   "r",
		CursorID: "r",
		Nodes: map[string]model.Node{
			"r": {ID: "r", ChildrenIDs: []string{}},
			"a": {ID: "a", ParentID: model.StringPtr("b"), ChildrenIDs: []string{"b"}},
			"b": {ID: "b", ParentID: model.StringPtr("a"), ChildrenIDs: []string{"a"}},
		},
	}
	var cyclic []string
	for _, p := range model.CheckState(state) {
		if p.Message == "is its own ancestor" {
			cyclic = append(cyclic, p.NodeID)
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, cyclic)
}

func TestParseColor(t *testing.T) {
	c, ok := model.ParseColor("pink")
	assert.True(t, ok)
	assert.Equal(t, model.ColorPink, c)
	_, ok = model.ParseColor("purple")
	assert.False(t, ok)
}
