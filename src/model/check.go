package model

import (
	"fmt"
	"sort"
)

// Problem describes one broken reference found by Check.
type Problem struct {
	DocID   string
	NodeID  string
	Message string
}

func (p Problem) String() string {
	switch {
	case p.DocID == "":
		return p.Message
	case p.NodeID == "":
		return fmt.Sprintf("document %s: %s", p.DocID, p.Message)
	default:
		return fmt.Sprintf("document %s, node %s: %s", p.DocID, p.NodeID, p.Message)
	}
}

// Check walks the workspace and reports dangling identifiers and broken
// parent/child links. The store never calls it; loading stays permissive.
func Check(ws Workspace) []Problem {
	var problems []Problem
	for i, tab := range ws.Tabs {
		if _, ok := ws.Documents[tab.DocID]; !ok {
			problems = append(problems, Problem{Message: fmt.Sprintf("tab %d references unknown document %q", i, tab.DocID)})
		}
	}
	if ws.ActiveDocID != "" {
		if _, ok := ws.Documents[ws.ActiveDocID]; !ok {
			problems = append(problems, Problem{Message: fmt.Sprintf("active document %q does not exist", ws.ActiveDocID)})
		}
	}
	ids := make([]string, 0, len(ws.Documents))
	for id := range ws.Documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		doc := ws.Documents[id]
		if doc.ID != id {
			problems = append(problems, Problem{DocID: id, Message: fmt.Sprintf("stored under key %q but has id %q", id, doc.ID)})
		}
		for _, p := range CheckState(doc.State()) {
			p.DocID = id
			problems = append(problems, p)
		}
		for n, state := range doc.UndoStack {
			for _, p := range CheckState(state) {
				p.DocID = id
				p.Message = fmt.Sprintf("undo entry %d: %s", n, p.Message)
				problems = append(problems, p)
			}
		}
		for n, state := range doc.RedoStack {
			for _, p := range CheckState(state) {
				p.DocID = id
				p.Message = fmt.Sprintf("redo entry %d: %s", n, p.Message)
				problems = append(problems, p)
			}
		}
	}
	return problems
}

// CheckState validates a single tree. DocID is left empty in the results.
func CheckState(state DocumentState) []Problem {
	var problems []Problem
	add := func(nodeID, format string, args ...any) {
		problems = append(problems, Problem{NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
	}
	root, ok := state.Nodes[state.RootID]
	switch {
	case !ok:
		add("", "root %q does not exist", state.RootID)
	case root.ParentID != nil:
		add(root.ID, "root has parent %q", *root.ParentID)
	}
	if _, ok := state.Nodes[state.CursorID]; !ok {
		add("", "cursor %q does not exist", state.CursorID)
	}

	ids := make([]string, 0, len(state.Nodes))
	for id := range state.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		node := state.Nodes[id]
		if node.ID != id {
			add(id, "stored under key %q but has id %q", id, node.ID)
		}
		if node.ParentID != nil {
			parent, ok := state.Nodes[*node.ParentID]
			if !ok {
				add(id, "parent %q does not exist", *node.ParentID)
			} else if !contains(parent.ChildrenIDs, id) {
				add(id, "parent %q does not list it as a child", *node.ParentID)
			}
		} else if id != state.RootID {
			add(id, "has no parent but is not the root")
		}
		for _, childID := range node.ChildrenIDs {
			child, ok := state.Nodes[childID]
			if !ok {
				add(id, "child %q does not exist", childID)
				continue
			}
			if child.ParentID == nil || *child.ParentID != id {
				add(id, "child %q points to a different parent", childID)
			}
		}
		if hasCycle(state.Nodes, id) {
			add(id, "is its own ancestor")
		}
	}
	return problems
}

func hasCycle(nodes map[string]Node, start string) bool {
	seen := map[string]bool{start: true}
	current := nodes[start]
	for current.ParentID != nil {
		next := *current.ParentID
		if seen[next] {
			return next == start
		}
		seen[next] = true
		parent, ok := nodes[next]
		if !ok {
			return false
		}
		current = parent
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
