// Package outline renders document trees as box-drawing text.
package outline

import (
	"fmt"
	"strings"

	"outliner/src/model"
)

const (
	cursorMark = "* "
	plainMark  = "  "
)

// Render draws the tree of state starting at its root. The cursor line is
// prefixed with "* ". Missing or repeated nodes are shown as markers.
func Render(state model.DocumentState) string {
	root, ok := state.Nodes[state.RootID]
	if !ok {
		return fmt.Sprintf("<missing root %s>", state.RootID)
	}
	visited := map[string]bool{root.ID: true}
	lines := []string{mark(state, root.ID) + label(root)}
	for i, childID := range root.ChildrenIDs {
		last := i == len(root.ChildrenIDs)-1
		lines = append(lines, formatNode(state, childID, "", last, visited)...)
	}
	return strings.Join(lines, "\n")
}

// RenderDocument draws doc under a header naming it.
func RenderDocument(doc model.Document) string {
	return fmt.Sprintf("# %s\n%s", doc.ID, Render(doc.State()))
}

func formatNode(state model.DocumentState, id, prefix string, last bool, visited map[string]bool) []string {
	connector := "├── "
	nextPrefix := prefix + "│   "
	if last {
		connector = "└── "
		nextPrefix = prefix + "    "
	}
	node, ok := state.Nodes[id]
	if !ok {
		return []string{fmt.Sprintf("%s%s%s<missing %s>", plainMark, prefix, connector, id)}
	}
	if visited[id] {
		return []string{fmt.Sprintf("%s%s%s<cycle %s>", plainMark, prefix, connector, id)}
	}
	visited[id] = true
	lines := []string{fmt.Sprintf("%s%s%s%s", mark(state, id), prefix, connector, label(node))}
	for i, childID := range node.ChildrenIDs {
		childLast := i == len(node.ChildrenIDs)-1
		lines = append(lines, formatNode(state, childID, nextPrefix, childLast, visited)...)
	}
	return lines
}

func mark(state model.DocumentState, id string) string {
	if state.CursorID == id {
		return cursorMark
	}
	return plainMark
}

func label(node model.Node) string {
	text := strings.TrimSpace(node.Text)
	if text == "" {
		text = "(empty)"
	}
	if node.Color != nil && *node.Color != "" {
		return fmt.Sprintf("%s [%s]", text, *node.Color)
	}
	return text
}
