package spellcheck

import (
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/sajari/fuzzy"
)

const (
	maxSuggestions = 3
	maxDistance    = 2
)

// DictionaryChecker checks words against an in-memory word list. Candidate
// corrections come from a fuzzy model trained on the same list and are ranked
// by edit distance.
type DictionaryChecker struct {
	mu    sync.RWMutex
	words map[string]struct{}
	model *fuzzy.Model
}

// NewDictionaryChecker builds a checker over the built-in word list plus
// extra.
func NewDictionaryChecker(extra ...string) *DictionaryChecker {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(maxDistance)
	c := &DictionaryChecker{words: map[string]struct{}{}, model: model}
	c.Add(defaultDictionary...)
	c.Add(extra...)
	return c
}

// Add teaches the checker new words.
func (c *DictionaryChecker) Add(words ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var fresh []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := c.words[w]; ok {
			continue
		}
		c.words[w] = struct{}{}
		fresh = append(fresh, w)
	}
	if len(fresh) > 0 {
		c.model.Train(fresh)
	}
}

// Known reports whether word is in the dictionary.
func (c *DictionaryChecker) Known(word string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.words[strings.ToLower(word)]
	return ok
}

// Check validates a word, returning up to three suggestions when it is
// unknown.
func (c *DictionaryChecker) Check(word string) (bool, []string) {
	if c == nil {
		return true, nil
	}
	w := strings.ToLower(word)
	if c.Known(w) {
		return true, nil
	}
	c.mu.RLock()
	candidates := c.model.Suggestions(w, false)
	if len(candidates) == 0 {
		candidates = c.scan(w)
	}
	c.mu.RUnlock()
	return false, rank(w, candidates)
}

func (c *DictionaryChecker) scan(word string) []string {
	var out []string
	for dictWord := range c.words {
		if levenshtein.ComputeDistance(word, dictWord) <= maxDistance {
			out = append(out, dictWord)
		}
	}
	return out
}

func rank(word string, candidates []string) []string {
	type candidate struct {
		word string
		dist int
	}
	seen := map[string]bool{}
	ranked := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand == word || seen[cand] {
			continue
		}
		seen[cand] = true
		dist := levenshtein.ComputeDistance(word, cand)
		if dist > maxDistance {
			continue
		}
		ranked = append(ranked, candidate{word: cand, dist: dist})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist == ranked[j].dist {
			return ranked[i].word < ranked[j].word
		}
		return ranked[i].dist < ranked[j].dist
	})
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	result := make([]string, len(ranked))
	for i, cand := range ranked {
		result[i] = cand.word
	}
	return result
}

var defaultDictionary = []string{
	"a", "about", "after", "again", "all", "also", "am", "an", "and", "any", "are", "as", "at",
	"back", "be", "because", "been", "before", "being", "book", "both", "but", "by",
	"can", "child", "children", "color", "could", "day", "delete", "did", "do", "document",
	"does", "done", "down", "draft", "each", "edit", "editor", "even", "every", "first", "for",
	"from", "get", "go", "goal", "good", "had", "has", "have", "he", "hello", "her", "here",
	"him", "his", "how", "i", "idea", "ideas", "if", "in", "into", "is", "it", "its", "just",
	"know", "last", "like", "list", "make", "many", "me", "meeting", "more", "most", "my",
	"new", "next", "no", "node", "not", "note", "notes", "now", "of", "on", "one", "only",
	"or", "other", "our", "out", "outline", "over", "parent", "plan", "please", "project",
	"receive", "redo", "review", "root", "said", "same", "save", "see", "she", "should",
	"sibling", "so", "some", "still", "such", "task", "tasks", "text", "than", "that", "the",
	"their", "them", "then", "there", "these", "they", "thing", "things", "this", "those",
	"through", "time", "title", "to", "todo", "tree", "two", "undo", "up", "updates", "us",
	"use", "very", "want", "was", "way", "we", "week", "well", "were", "what", "when", "where",
	"which", "while", "who", "why", "will", "with", "work", "world", "would", "write", "year",
	"you", "your",
}
