// Package spellcheck finds misspelled words in node text.
package spellcheck

import (
	"sort"
	"unicode"

	"outliner/src/model"
)

// Checker validates words and returns suggestions for corrections.
type Checker interface {
	Check(word string) (bool, []string)
}

// Service runs a Checker over documents.
type Service struct {
	checker Checker
}

// NewService constructs a spell check service.
func NewService(checker Checker) *Service {
	return &Service{checker: checker}
}

// Issue is one misspelled word inside a node.
type Issue struct {
	NodeID      string
	Column      int
	Word        string
	Suggestions []string
}

// CheckState checks every node of state in outline order. Nodes that are not
// reachable from the root are checked afterwards, ordered by id.
func (s *Service) CheckState(state model.DocumentState) []Issue {
	if s == nil || s.checker == nil {
		return nil
	}
	var issues []Issue
	for _, id := range outlineOrder(state) {
		issues = append(issues, s.CheckText(id, state.Nodes[id].Text)...)
	}
	return issues
}

// CheckText checks a single piece of node text.
func (s *Service) CheckText(nodeID, text string) []Issue {
	if s == nil || s.checker == nil {
		return nil
	}
	var issues []Issue
	for _, pos := range extractWordPositions(text) {
		ok, suggestions := s.checker.Check(pos.word)
		if ok {
			continue
		}
		issues = append(issues, Issue{
			NodeID:      nodeID,
			Column:      pos.column,
			Word:        pos.word,
			Suggestions: suggestions,
		})
	}
	return issues
}

func outlineOrder(state model.DocumentState) []string {
	seen := make(map[string]bool, len(state.Nodes))
	order := make([]string, 0, len(state.Nodes))
	var walk func(id string)
	walk = func(id string) {
		node, ok := state.Nodes[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
		for _, child := range node.ChildrenIDs {
			walk(child)
		}
	}
	walk(state.RootID)

	var rest []string
	for id := range state.Nodes {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

type wordPosition struct {
	word   string
	column int
}

// extractWordPositions splits text into runs of letters with their 1-based
// rune column.
func extractWordPositions(text string) []wordPosition {
	var result []wordPosition
	var word []rune
	column := 1
	start := 1
	for _, r := range text {
		if unicode.IsLetter(r) || (r == '\'' && len(word) > 0) {
			if len(word) == 0 {
				start = column
			}
			word = append(word, r)
		} else if len(word) > 0 {
			result = append(result, wordPosition{word: trimApostrophe(word), column: start})
			word = word[:0]
		}
		column++
	}
	if len(word) > 0 {
		result = append(result, wordPosition{word: trimApostrophe(word), column: start})
	}
	return result
}

func trimApostrophe(word []rune) string {
	for len(word) > 0 && word[len(word)-1] == '\'' {
		word = word[:len(word)-1]
	}
	return string(word)
}
