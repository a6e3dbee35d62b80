// Package statistics measures how long each document has been in focus.
package statistics

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Clock abstracts time retrieval for testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Tracker accumulates focus time per document id. At most one document is
// focused at a time.
type Tracker struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	focused   string
	since     time.Time
	clock     Clock
}

// Entry is one line of a focus report.
type Entry struct {
	DocID    string
	Duration time.Duration
}

// NewTracker constructs a tracker. A nil clock uses wall time.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = realClock{}
	}
	return &Tracker{
		durations: map[string]time.Duration{},
		clock:     clock,
	}
}

// Focus moves focus to docID, closing the interval of the previously focused
// document. An empty docID clears focus.
func (t *Tracker) Focus(docID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	t.flush(now)
	if docID == "" {
		return
	}
	if _, ok := t.durations[docID]; !ok {
		t.durations[docID] = 0
	}
	t.focused = docID
	t.since = now
}

// Forget drops everything recorded for docID.
func (t *Tracker) Forget(docID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.focused == docID {
		t.focused = ""
	}
	delete(t.durations, docID)
}

// Stop closes the current interval without dropping totals.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flush(t.clock.Now())
}

// Duration reports the accumulated focus time of docID, including the open
// interval when it is focused.
func (t *Tracker) Duration(docID string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := t.durations[docID]
	if docID != "" && docID == t.focused {
		total += t.clock.Now().Sub(t.since)
	}
	return total
}

// Report lists every tracked document, longest focus first.
func (t *Tracker) Report() []Entry {
	t.mu.Lock()
	now := t.clock.Now()
	entries := make([]Entry, 0, len(t.durations))
	for id, d := range t.durations {
		if id == t.focused {
			d += now.Sub(t.since)
		}
		entries = append(entries, Entry{DocID: id, Duration: d})
	}
	t.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Duration != entries[j].Duration {
			return entries[i].Duration > entries[j].Duration
		}
		return entries[i].DocID < entries[j].DocID
	})
	return entries
}

func (t *Tracker) flush(now time.Time) {
	if t.focused == "" {
		return
	}
	t.durations[t.focused] += now.Sub(t.since)
	t.focused = ""
}

// FormatDuration renders a duration in the largest two units that apply.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0秒"
	}
	seconds := int(d / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%d秒", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d分钟", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if rem := minutes % 60; rem != 0 {
			return fmt.Sprintf("%d小时%d分钟", hours, rem)
		}
		return fmt.Sprintf("%d小时", hours)
	}
	days := hours / 24
	if rem := hours % 24; rem != 0 {
		return fmt.Sprintf("%d天%d小时", days, rem)
	}
	return fmt.Sprintf("%d天", days)
}
