// Package editor applies outline edits to a single document and keeps its
// snapshot based undo/redo history.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"outliner/src/model"
)

var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrNoCursor means the cursor does not name a node of the document.
	ErrNoCursor = errors.New("cursor does not point at a node")
	// ErrRootDelete is returned when deleting the root node.
	ErrRootDelete = errors.New("the root node cannot be deleted")
	// ErrUnknownNode is returned when selecting a node that does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownColor is returned for colors outside the palette.
	ErrUnknownColor = errors.New("unknown color")
)

// Direction selects the target of a cursor move.
type Direction int

const (
	Parent Direction = iota
	FirstChild
	NextSibling
	PrevSibling
)

// Editor owns one document. Mutating edits record the previous state on the
// undo stack and clear the redo stack; cursor moves record nothing.
type Editor struct {
	doc      model.Document
	modified bool
	newID    func() string
}

// New wraps a copy of doc.
func New(doc model.Document) *Editor {
	doc = doc.Clone()
	if doc.UndoStack == nil {
		doc.UndoStack = []model.DocumentState{}
	}
	if doc.RedoStack == nil {
		doc.RedoStack = []model.DocumentState{}
	}
	return &Editor{doc: doc, newID: model.NewID}
}

// ID returns the document identifier.
func (e *Editor) ID() string {
	return e.doc.ID
}

// Title returns the root text, or "Untitled" when it is blank.
func (e *Editor) Title() string {
	root, ok := e.doc.Nodes[e.doc.RootID]
	if !ok || strings.TrimSpace(root.Text) == "" {
		return "Untitled"
	}
	return strings.TrimSpace(root.Text)
}

// Document returns a deep copy of the document including its history.
func (e *Editor) Document() model.Document {
	return e.doc.Clone()
}

// State returns a snapshot of the current tree.
func (e *Editor) State() model.DocumentState {
	return e.doc.State()
}

// Cursor returns the node under the cursor.
func (e *Editor) Cursor() (model.Node, bool) {
	node, ok := e.doc.Nodes[e.doc.CursorID]
	if !ok {
		return model.Node{}, false
	}
	return node.Clone(), true
}

// Node looks up a node by id.
func (e *Editor) Node(id string) (model.Node, bool) {
	node, ok := e.doc.Nodes[id]
	if !ok {
		return model.Node{}, false
	}
	return node.Clone(), true
}

// IsModified reports whether the document changed since the last save.
func (e *Editor) IsModified() bool {
	return e.modified
}

// SetModified forces the modified flag.
func (e *Editor) SetModified(value bool) {
	e.modified = value
}

// CanUndo reports whether Undo has an entry to restore.
func (e *Editor) CanUndo() bool {
	return len(e.doc.UndoStack) > 0
}

// CanRedo reports whether Redo has an entry to restore.
func (e *Editor) CanRedo() bool {
	return len(e.doc.RedoStack) > 0
}

// MoveCursor moves the cursor and reports whether it moved.
func (e *Editor) MoveCursor(dir Direction) bool {
	before := e.doc.CursorID
	st := e.doc.State()
	moveCursor(&st, dir)
	if st.CursorID == before {
		return false
	}
	e.doc.CursorID = st.CursorID
	e.modified = true
	return true
}

// Select puts the cursor on the node with the given id.
func (e *Editor) Select(id string) error {
	if _, ok := e.doc.Nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if e.doc.CursorID != id {
		e.doc.CursorID = id
		e.modified = true
	}
	return nil
}

// MoveUp swaps the cursor node with its previous sibling.
func (e *Editor) MoveUp() bool {
	return e.apply(func(st *model.DocumentState) { swapSibling(st, true) })
}

// MoveDown swaps the cursor node with its next sibling.
func (e *Editor) MoveDown() bool {
	return e.apply(func(st *model.DocumentState) { swapSibling(st, false) })
}

// Indent makes the cursor node the last child of its previous sibling.
func (e *Editor) Indent() bool {
	return e.apply(indent)
}

// Outdent makes the cursor node a sibling following its parent.
func (e *Editor) Outdent() bool {
	return e.apply(outdent)
}

// AddChild appends a node with text under the cursor, moves the cursor to it
// and returns its id. The id is empty when nothing was inserted.
func (e *Editor) AddChild(text string) (string, error) {
	return e.insert(text, addChild)
}

// AddSibling inserts a node with text after the cursor, moves the cursor to
// it and returns its id. On the root it behaves like AddChild.
func (e *Editor) AddSibling(text string) (string, error) {
	return e.insert(text, addSibling)
}

func (e *Editor) insert(text string, add func(*model.DocumentState, string) bool) (string, error) {
	if _, ok := e.doc.Nodes[e.doc.CursorID]; !ok {
		return "", ErrNoCursor
	}
	id := e.newID()
	inserted := e.apply(func(st *model.DocumentState) {
		if !add(st, id) {
			return
		}
		node := st.Nodes[id]
		node.Text = text
		st.Nodes[id] = node
	})
	if !inserted {
		return "", nil
	}
	return id, nil
}

// SetText replaces the cursor node text.
func (e *Editor) SetText(text string) (bool, error) {
	if _, ok := e.doc.Nodes[e.doc.CursorID]; !ok {
		return false, ErrNoCursor
	}
	return e.apply(func(st *model.DocumentState) {
		node := st.Nodes[st.CursorID]
		node.Text = text
		st.Nodes[node.ID] = node
	}), nil
}

// SetColor highlights the cursor node. An empty name or "none" clears it.
func (e *Editor) SetColor(name string) (bool, error) {
	if _, ok := e.doc.Nodes[e.doc.CursorID]; !ok {
		return false, ErrNoCursor
	}
	var color *string
	if name != "" && name != "none" {
		c, ok := model.ParseColor(name)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownColor, name)
		}
		color = model.StringPtr(string(c))
	}
	return e.apply(func(st *model.DocumentState) {
		node := st.Nodes[st.CursorID]
		node.Color = color
		st.Nodes[node.ID] = node
	}), nil
}

// Delete removes the cursor node, promotes its children into its place and
// reports whether the tree changed. A node detached from its parent stays.
func (e *Editor) Delete() (bool, error) {
	if e.doc.CursorID == e.doc.RootID {
		return false, ErrRootDelete
	}
	if _, ok := e.doc.Nodes[e.doc.CursorID]; !ok {
		return false, ErrNoCursor
	}
	return e.apply(deleteCursor), nil
}

// Undo restores the most recent undo entry; the current state moves to the
// redo stack.
func (e *Editor) Undo() error {
	if len(e.doc.UndoStack) == 0 {
		return ErrNothingToUndo
	}
	last := e.doc.UndoStack[len(e.doc.UndoStack)-1]
	e.doc.UndoStack = e.doc.UndoStack[:len(e.doc.UndoStack)-1]
	e.doc.RedoStack = append(e.doc.RedoStack, e.doc.State())
	e.doc.Restore(last)
	e.modified = true
	return nil
}

// Redo restores the most recent redo entry; the current state moves to the
// undo stack.
func (e *Editor) Redo() error {
	if len(e.doc.RedoStack) == 0 {
		return ErrNothingToRedo
	}
	last := e.doc.RedoStack[len(e.doc.RedoStack)-1]
	e.doc.RedoStack = e.doc.RedoStack[:len(e.doc.RedoStack)-1]
	e.doc.UndoStack = append(e.doc.UndoStack, e.doc.State())
	e.doc.Restore(last)
	e.modified = true
	return nil
}

func (e *Editor) apply(mutate func(st *model.DocumentState)) bool {
	before := e.doc.State()
	working := before.Clone()
	mutate(&working)
	if working.Equal(before) {
		return false
	}
	e.doc.UndoStack = append(e.doc.UndoStack, before)
	e.doc.RedoStack = []model.DocumentState{}
	e.doc.Restore(working)
	e.modified = true
	return true
}
