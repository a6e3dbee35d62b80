// Package model holds the workspace value types that are persisted as one
// JSON document: workspaces, documents, undo/redo snapshots and tree nodes.
//
// Relationships between nodes are expressed through identifiers only; a
// document owns its nodes through the Nodes map.
package model

// Color names a node highlight from the editor palette.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// Palette lists the colors the editor offers, in display order.
var Palette = []Color{ColorBlue, ColorGreen, ColorYellow, ColorPink, ColorGray}

// ParseColor reports whether name is part of the palette.
func ParseColor(name string) (Color, bool) {
	for _, c := range Palette {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Node is one line of a document tree.
type Node struct {
	ID          string
	Text        string
	ParentID    *string
	ChildrenIDs []string
	Color       *string
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}

// DocumentState is a point-in-time capture of a document tree, used as an
// undo/redo entry.
type DocumentState struct {
	RootID   string
	CursorID string
	Nodes    map[string]Node
}

// Document is a tree of nodes together with its edit history.
type Document struct {
	ID        string
	RootID    string
	CursorID  string
	Nodes     map[string]Node
	UndoStack []DocumentState
	RedoStack []DocumentState
}

// State captures the current tree of the document.
func (d Document) State() DocumentState {
	return DocumentState{
		RootID:   d.RootID,
		CursorID: d.CursorID,
		Nodes:    cloneNodes(d.Nodes),
	}
}

// Restore replaces the tree of the document with a copy of state. The
// history stacks are left untouched.
func (d *Document) Restore(state DocumentState) {
	d.RootID = state.RootID
	d.CursorID = state.CursorID
	d.Nodes = cloneNodes(state.Nodes)
}

// TabRef records that a document is open in a tab.
type TabRef struct {
	DocID string
}

// Workspace is the complete persisted application state.
type Workspace struct {
	Tabs        []TabRef
	ActiveDocID string
	Documents   map[string]Document
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
