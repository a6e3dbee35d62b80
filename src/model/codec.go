package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The wire names below are a stable contract with previously saved files.

type nodeWire struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	ParentID    *string  `json:"parentId"`
	ChildrenIDs []string `json:"childrenIds"`
	Color       *string  `json:"color"`
}

type stateWire struct {
	RootID   string          `json:"rootId"`
	CursorID string          `json:"cursorId"`
	Nodes    map[string]Node `json:"nodes"`
}

type documentWire struct {
	ID        string          `json:"id"`
	RootID    string          `json:"rootId"`
	CursorID  string          `json:"cursorId"`
	Nodes     map[string]Node `json:"nodes"`
	UndoStack []DocumentState `json:"undoStack"`
	RedoStack []DocumentState `json:"redoStack"`
}

type tabWire struct {
	DocID string `json:"docId"`
}

type workspaceWire struct {
	Tabs        []TabRef            `json:"tabs"`
	ActiveDocID string              `json:"activeDocId"`
	Documents   map[string]Document `json:"documents"`
}

// MissingFieldError reports a required field that was absent or null.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.Type, e.Field)
}

func missing(typ, field string) error {
	return &MissingFieldError{Type: typ, Field: field}
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	children := n.ChildrenIDs
	if children == nil {
		children = []string{}
	}
	return marshal(nodeWire{
		ID:          n.ID,
		Text:        n.Text,
		ParentID:    n.ParentID,
		ChildrenIDs: children,
		Color:       n.Color,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          *string   `json:"id"`
		Text        *string   `json:"text"`
		ParentID    *string   `json:"parentId"`
		ChildrenIDs *[]string `json:"childrenIds"`
		Color       *string   `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID == nil:
		return missing("node", "id")
	case raw.Text == nil:
		return missing("node", "text")
	case raw.ChildrenIDs == nil:
		return missing("node", "childrenIds")
	}
	*n = Node{
		ID:          *raw.ID,
		Text:        *raw.Text,
		ParentID:    raw.ParentID,
		ChildrenIDs: *raw.ChildrenIDs,
		Color:       raw.Color,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s DocumentState) MarshalJSON() ([]byte, error) {
	return marshal(stateWire{
		RootID:   s.RootID,
		CursorID: s.CursorID,
		Nodes:    nonNilNodes(s.Nodes),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *DocumentState) UnmarshalJSON(data []byte) error {
	var raw struct {
		RootID   *string          `json:"rootId"`
		CursorID *string          `json:"cursorId"`
		Nodes    *map[string]Node `json:"nodes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.RootID == nil:
		return missing("document state", "rootId")
	case raw.CursorID == nil:
		return missing("document state", "cursorId")
	case raw.Nodes == nil:
		return missing("document state", "nodes")
	}
	*s = DocumentState{
		RootID:   *raw.RootID,
		CursorID: *raw.CursorID,
		Nodes:    nonNilNodes(*raw.Nodes),
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return marshal(documentWire{
		ID:        d.ID,
		RootID:    d.RootID,
		CursorID:  d.CursorID,
		Nodes:     nonNilNodes(d.Nodes),
		UndoStack: nonNilStates(d.UndoStack),
		RedoStack: nonNilStates(d.RedoStack),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        *string          `json:"id"`
		RootID    *string          `json:"rootId"`
		CursorID  *string          `json:"cursorId"`
		Nodes     *map[string]Node `json:"nodes"`
		UndoStack *[]DocumentState `json:"undoStack"`
		RedoStack *[]DocumentState `json:"redoStack"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ID == nil:
		return missing("document", "id")
	case raw.RootID == nil:
		return missing("document", "rootId")
	case raw.CursorID == nil:
		return missing("document", "cursorId")
	case raw.Nodes == nil:
		return missing("document", "nodes")
	case raw.UndoStack == nil:
		return missing("document", "undoStack")
	case raw.RedoStack == nil:
		return missing("document", "redoStack")
	}
	*d = Document{
		ID:        *raw.ID,
		RootID:    *raw.RootID,
		CursorID:  *raw.CursorID,
		Nodes:     nonNilNodes(*raw.Nodes),
		UndoStack: nonNilStates(*raw.UndoStack),
		RedoStack: nonNilStates(*raw.RedoStack),
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t TabRef) MarshalJSON() ([]byte, error) {
	return marshal(tabWire{DocID: t.DocID})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TabRef) UnmarshalJSON(data []byte) error {
	var raw struct {
		DocID *string `json:"docId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.DocID == nil {
		return missing("tab", "docId")
	}
	t.DocID = *raw.DocID
	return nil
}

// MarshalJSON implements json.Marshaler.
func (w Workspace) MarshalJSON() ([]byte, error) {
	tabs := w.Tabs
	if tabs == nil {
		tabs = []TabRef{}
	}
	docs := w.Documents
	if docs == nil {
		docs = map[string]Document{}
	}
	return marshal(workspaceWire{
		Tabs:        tabs,
		ActiveDocID: w.ActiveDocID,
		Documents:   docs,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Workspace) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tabs        *[]TabRef            `json:"tabs"`
		ActiveDocID *string              `json:"activeDocId"`
		Documents   *map[string]Document `json:"documents"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Tabs == nil:
		return missing("workspace", "tabs")
	case raw.ActiveDocID == nil:
		return missing("workspace", "activeDocId")
	case raw.Documents == nil:
		return missing("workspace", "documents")
	}
	docs := *raw.Documents
	if docs == nil {
		docs = map[string]Document{}
	}
	tabs := *raw.Tabs
	if tabs == nil {
		tabs = []TabRef{}
	}
	*w = Workspace{
		Tabs:        tabs,
		ActiveDocID: *raw.ActiveDocID,
		Documents:   docs,
	}
	return nil
}

func nonNilNodes(nodes map[string]Node) map[string]Node {
	if nodes == nil {
		return map[string]Node{}
	}
	return nodes
}

func nonNilStates(states []DocumentState) []DocumentState {
	if states == nil {
		return []DocumentState{}
	}
	return states
}

// marshal encodes v without HTML escaping so text such as "a < b" is stored
// verbatim.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
