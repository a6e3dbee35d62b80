// Package workspace keeps the open documents of a session, their tab order
// and the focused document, and moves them to and from a Repository.
package workspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"outliner/src/editor"
	"outliner/src/events"
	"outliner/src/model"
	"outliner/src/statistics"
)

const untitled = "Untitled"

var (
	// ErrLastTab is returned when closing the only open tab.
	ErrLastTab = errors.New("the last tab cannot be closed")
	// ErrUnknownTab is returned for tab references that match nothing.
	ErrUnknownTab = errors.New("no such tab")
	// ErrNoActiveDocument means no document is focused.
	ErrNoActiveDocument = errors.New("no active document")
)

// Repository loads and saves the whole workspace. A nil workspace from Load
// means nothing was stored.
type Repository interface {
	Load() (*model.Workspace, error)
	Save(model.Workspace) error
}

// Info describes an open tab.
type Info struct {
	Index    int
	DocID    string
	Title    string
	Active   bool
	Modified bool
	Duration time.Duration
}

// Session coordinates editors, persistence and observers.
type Session struct {
	repo    Repository
	tabs    []string
	editors map[string]*editor.Editor
	active  string

	revision uint64
	saved    uint64

	bus    *events.Bus
	stats  *statistics.Tracker
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithBus publishes session events on bus.
func WithBus(bus *events.Bus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithTracker records focus time in tracker.
func WithTracker(tracker *statistics.Tracker) Option {
	return func(s *Session) {
		if tracker != nil {
			s.stats = tracker
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession builds an empty session over repo. Call Restore before use.
func NewSession(repo Repository, opts ...Option) *Session {
	s := &Session{
		repo:    repo,
		editors: map[string]*editor.Editor{},
		stats:   statistics.NewTracker(nil),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the stored workspace. When nothing is stored the session
// starts with a single untitled document. Tabs pointing at unknown documents
// are dropped and an unknown active document falls back to the first tab.
func (s *Session) Restore() error {
	stored, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	s.tabs = nil
	s.editors = map[string]*editor.Editor{}
	s.active = ""

	source := "file"
	repaired := false
	if stored == nil {
		source = "new"
		s.open(model.NewDocument(untitled))
	} else {
		repaired = s.hydrate(*stored)
	}

	s.saved = s.revision
	if repaired {
		s.touch()
	}
	s.stats.Focus(s.active)
	s.logger.Info("workspace restored",
		zap.String("source", source),
		zap.Int("tabs", len(s.tabs)),
		zap.Bool("repaired", repaired))
	s.publish(events.Event{
		Type:     events.EventWorkspaceLoaded,
		DocID:    s.active,
		Metadata: map[string]string{"source": source, "tabs": strconv.Itoa(len(s.tabs))},
	})
	return nil
}

// hydrate adopts ws and reports whether it had to be repaired.
func (s *Session) hydrate(ws model.Workspace) bool {
	repaired := false
	for id, doc := range ws.Documents {
		if doc.ID == "" {
			doc.ID = id
		}
		s.editors[id] = editor.New(doc)
	}
	seen := map[string]bool{}
	for _, tab := range ws.Tabs {
		if _, ok := s.editors[tab.DocID]; !ok || seen[tab.DocID] {
			repaired = true
			continue
		}
		seen[tab.DocID] = true
		s.tabs = append(s.tabs, tab.DocID)
	}
	if len(s.tabs) == 0 {
		s.open(model.NewDocument(""))
		return true
	}
	// An active document without a tab is not shown, so focus the first tab.
	if seen[ws.ActiveDocID] {
		s.active = ws.ActiveDocID
	} else {
		s.active = s.tabs[0]
		repaired = true
	}
	return repaired
}

// Workspace assembles the persistable workspace from the open editors.
func (s *Session) Workspace() model.Workspace {
	ws := model.Workspace{
		Tabs:        make([]model.TabRef, 0, len(s.tabs)),
		ActiveDocID: s.active,
		Documents:   make(map[string]model.Document, len(s.editors)),
	}
	for _, id := range s.tabs {
		ws.Tabs = append(ws.Tabs, model.TabRef{DocID: id})
	}
	for id, ed := range s.editors {
		ws.Documents[id] = ed.Document()
	}
	return ws
}

// Save writes the workspace to the repository.
func (s *Session) Save() error {
	if err := s.repo.Save(s.Workspace()); err != nil {
		s.logger.Error("save workspace", zap.Error(err))
		return fmt.Errorf("save workspace: %w", err)
	}
	s.saved = s.revision
	for _, ed := range s.editors {
		ed.SetModified(false)
	}
	s.logger.Debug("workspace saved", zap.Uint64("revision", s.revision))
	s.publish(events.Event{
		Type:     events.EventWorkspaceSaved,
		DocID:    s.active,
		Metadata: map[string]string{"revision": strconv.FormatUint(s.revision, 10)},
	})
	return nil
}

// SaveIfDirty saves only when something changed since the last save and
// reports whether it wrote.
func (s *Session) SaveIfDirty() (bool, error) {
	if !s.Dirty() {
		return false, nil
	}
	if err := s.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool {
	return s.revision != s.saved
}

// Shutdown stops focus tracking and saves pending changes.
func (s *Session) Shutdown() error {
	s.stats.Stop()
	_, err := s.SaveIfDirty()
	return err
}

// New opens a fresh document titled title in a new tab and focuses it.
func (s *Session) New(title string) *editor.Editor {
	ed := s.open(model.NewDocument(title))
	s.stats.Focus(s.active)
	s.touch()
	s.publish(events.Event{Type: events.EventDocumentOpened, DocID: ed.ID()})
	return ed
}

func (s *Session) open(doc model.Document) *editor.Editor {
	ed := editor.New(doc)
	s.editors[doc.ID] = ed
	s.tabs = append(s.tabs, doc.ID)
	s.active = doc.ID
	return ed
}

// Active returns the editor of the focused document.
func (s *Session) Active() (*editor.Editor, error) {
	ed, ok := s.editors[s.active]
	if !ok {
		return nil, ErrNoActiveDocument
	}
	return ed, nil
}

// ActiveID returns the focused document id.
func (s *Session) ActiveID() string {
	return s.active
}

// Editor returns the editor of docID.
func (s *Session) Editor(docID string) (*editor.Editor, bool) {
	ed, ok := s.editors[docID]
	return ed, ok
}

// Update runs fn against the focused editor and records a change when fn
// reports one.
func (s *Session) Update(fn func(ed *editor.Editor) (bool, error)) (bool, error) {
	ed, err := s.Active()
	if err != nil {
		return false, err
	}
	changed, err := fn(ed)
	if changed {
		s.touch()
	}
	return changed, err
}

// Tabs lists the open tabs in order.
func (s *Session) Tabs() []Info {
	infos := make([]Info, 0, len(s.tabs))
	for i, id := range s.tabs {
		ed := s.editors[id]
		infos = append(infos, Info{
			Index:    i + 1,
			DocID:    id,
			Title:    ed.Title(),
			Active:   id == s.active,
			Modified: ed.IsModified(),
			Duration: s.stats.Duration(id),
		})
	}
	return infos
}

// Switch focuses the tab named by ref, either a 1-based position or a
// document id.
func (s *Session) Switch(ref string) error {
	idx, err := s.resolve(ref)
	if err != nil {
		return err
	}
	s.focus(s.tabs[idx])
	return nil
}

// Next focuses the tab after the active one, wrapping around.
func (s *Session) Next() {
	s.cycle(1)
}

// Prev focuses the tab before the active one, wrapping around.
func (s *Session) Prev() {
	s.cycle(-1)
}

func (s *Session) cycle(step int) {
	if len(s.tabs) == 0 {
		return
	}
	idx := s.indexOf(s.active)
	if idx < 0 {
		idx = 0
	}
	next := (idx + step + len(s.tabs)) % len(s.tabs)
	s.focus(s.tabs[next])
}

// Close closes the tab named by ref, or the active tab when ref is empty,
// and discards its document. The last tab cannot be closed.
func (s *Session) Close(ref string) error {
	idx := s.indexOf(s.active)
	if ref != "" {
		var err error
		if idx, err = s.resolve(ref); err != nil {
			return err
		}
	}
	if idx < 0 {
		return ErrNoActiveDocument
	}
	if len(s.tabs) <= 1 {
		return ErrLastTab
	}
	docID := s.tabs[idx]
	s.tabs = append(s.tabs[:idx:idx], s.tabs[idx+1:]...)
	delete(s.editors, docID)
	s.stats.Forget(docID)
	if docID == s.active {
		if idx > len(s.tabs)-1 {
			idx = len(s.tabs) - 1
		}
		s.active = s.tabs[idx]
		s.stats.Focus(s.active)
	}
	s.touch()
	s.publish(events.Event{Type: events.EventDocumentClosed, DocID: docID})
	return nil
}

// PublishCommand notifies observers that a command ran.
func (s *Session) PublishCommand(name, raw string) {
	s.publish(events.Event{
		Type:    events.EventCommandExecuted,
		Command: name,
		Raw:     raw,
		DocID:   s.active,
	})
}

func (s *Session) focus(docID string) {
	if docID == s.active {
		return
	}
	s.active = docID
	s.stats.Focus(docID)
	s.touch()
}

func (s *Session) resolve(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(s.tabs) {
			return -1, fmt.Errorf("%w: %d", ErrUnknownTab, n)
		}
		return n - 1, nil
	}
	if idx := s.indexOf(ref); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownTab, ref)
}

func (s *Session) indexOf(docID string) int {
	for i, id := range s.tabs {
		if id == docID {
			return i
		}
	}
	return -1
}

func (s *Session) touch() {
	s.revision++
}

func (s *Session) publish(evt events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(evt)
}
