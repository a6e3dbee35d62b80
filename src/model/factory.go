package model

import "github.com/google/uuid"

// NewID returns a fresh identifier for a node or document.
func NewID() string {
	return uuid.NewString()
}

// NewDocument builds a document holding a single root node titled title.
func NewDocument(title string) Document {
	rootID := NewID()
	return Document{
		ID:       NewID(),
		RootID:   rootID,
		CursorID: rootID,
		Nodes: map[string]Node{
			rootID: {ID: rootID, Text: title, ChildrenIDs: []string{}},
		},
		UndoStack: []DocumentState{},
		RedoStack: []DocumentState{},
	}
}

// NewWorkspace returns a workspace with no documents.
func NewWorkspace() Workspace {
	return Workspace{
		Tabs:      []TabRef{},
		Documents: map[string]Document{},
	}
}

// Open adds doc to the workspace, opens it in a new tab and focuses it.
func (w *Workspace) Open(doc Document) {
	if w.Documents == nil {
		w.Documents = map[string]Document{}
	}
	w.Documents[doc.ID] = doc
	w.Tabs = append(w.Tabs, TabRef{DocID: doc.ID})
	w.ActiveDocID = doc.ID
}

// TabIndex returns the position of the first tab showing docID, or -1.
func (w Workspace) TabIndex(docID string) int {
	for i, tab := range w.Tabs {
		if tab.DocID == docID {
			return i
		}
	}
	return -1
}
