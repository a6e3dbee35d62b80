package logging

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"outliner/src/events"
)

// Manager writes bus events to the application log. Commands on documents
// with tracing enabled are logged at info level, everything else at debug.
type Manager struct {
	mu      sync.Mutex
	logger  *zap.Logger
	enabled map[string]bool
}

// NewManager builds a Manager writing to logger.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:  logger.Named("events"),
		enabled: map[string]bool{},
	}
}

// Handle consumes bus events.
func (m *Manager) Handle(evt events.Event) {
	fields := []zap.Field{
		zap.String("type", string(evt.Type)),
		zap.Time("at", evt.Timestamp),
	}
	if evt.DocID != "" {
		fields = append(fields, zap.String("doc", evt.DocID))
	}
	if evt.Command != "" {
		fields = append(fields, zap.String("command", evt.Command), zap.String("raw", evt.Raw))
	}
	keys := make([]string, 0, len(evt.Metadata))
	for k := range evt.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, evt.Metadata[k]))
	}

	switch evt.Type {
	case events.EventWorkspaceQuarantined:
		m.logger.Warn("workspace event", fields...)
	case events.EventDocumentClosed:
		m.Disable(evt.DocID)
		m.logger.Info("workspace event", fields...)
	case events.EventCommandExecuted:
		if m.Enabled(evt.DocID) {
			m.logger.Info("command", fields...)
			return
		}
		m.logger.Debug("command", fields...)
	default:
		m.logger.Info("workspace event", fields...)
	}
}

// Enable turns on command tracing for a document.
func (m *Manager) Enable(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled[docID] = true
	m.logger.Info("command tracing enabled", zap.String("doc", docID))
}

// Disable turns off command tracing for a document.
func (m *Manager) Disable(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.enabled, docID)
}

// Enabled reports whether tracing is active for a document.
func (m *Manager) Enabled(docID string) bool {
	if docID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled[docID]
}

// ActiveDocs lists documents with tracing enabled.
func (m *Manager) ActiveDocs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, 0, len(m.enabled))
	for id := range m.enabled {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
