// Package search finds nodes of a document by their text.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"outliner/src/model"
)

const (
	emptyLabel   = "(empty)"
	pathSep      = " › "
	maxAncestors = 3
	// maxDepth bounds ancestor walks on corrupted parent chains.
	maxDepth = 1000
)

// Result is one matching node.
type Result struct {
	NodeID   string
	Title    string
	Subtitle string
	Depth    int
}

// Find returns the nodes whose text contains query, ignoring case. Results are
// ordered by depth, then title. A blank query matches nothing.
func Find(state model.DocumentState, query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []Result
	for _, node := range state.Nodes {
		if !strings.Contains(strings.ToLower(node.Text), q) {
			continue
		}
		results = append(results, newResult(state, node))
	}
	sortResults(results)
	return results
}

// FindSimilar returns nodes having a word within maxDistance edits of query,
// for queries that have no substring match. Ordering follows Find.
func FindSimilar(state model.DocumentState, query string, maxDistance int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []Result
	for _, node := range state.Nodes {
		for _, word := range strings.Fields(strings.ToLower(node.Text)) {
			if levenshtein.ComputeDistance(q, word) <= maxDistance {
				results = append(results, newResult(state, node))
				break
			}
		}
	}
	sortResults(results)
	return results
}

func newResult(state model.DocumentState, node model.Node) Result {
	subtitle, depth := nodePath(state, node.ID)
	return Result{
		NodeID:   node.ID,
		Title:    label(node.Text),
		Subtitle: subtitle,
		Depth:    depth,
	}
}

func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Depth != results[j].Depth {
			return results[i].Depth < results[j].Depth
		}
		if results[i].Title != results[j].Title {
			return results[i].Title < results[j].Title
		}
		return results[i].NodeID < results[j].NodeID
	})
}

// nodePath renders the ancestors of id, root first, and its depth.
func nodePath(state model.DocumentState, id string) (string, int) {
	var labels []string
	depth := 0
	current, ok := state.Nodes[id]
	for ok {
		labels = append(labels, label(current.Text))
		if current.ParentID == nil {
			break
		}
		current, ok = state.Nodes[*current.ParentID]
		depth++
		if depth > maxDepth {
			break
		}
	}

	ancestors := make([]string, 0, len(labels))
	for i := len(labels) - 1; i > 0; i-- {
		ancestors = append(ancestors, labels[i])
	}
	switch {
	case len(ancestors) == 0:
		return "Path: Root", 0
	case len(ancestors) > maxAncestors:
		tail := append([]string{"…"}, ancestors[len(ancestors)-maxAncestors:]...)
		return "Path: " + strings.Join(tail, pathSep), depth
	default:
		return "Path: " + strings.Join(ancestors, pathSep), depth
	}
}

func label(text string) string {
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return emptyLabel
}
