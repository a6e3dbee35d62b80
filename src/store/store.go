// Package store persists a workspace to a single JSON file.
//
// Writes go to a temporary sibling file that is then renamed over the
// workspace file, so readers never observe a partially written file. A file
// that cannot be decoded is renamed aside to a timestamped ".broken-" sibling
// and treated as absent.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"outliner/src/model"
)

const (
	tmpMarker    = ".tmp-"
	brokenMarker = ".broken-"
)

// QuarantineFunc is told where a corrupt workspace file was moved.
type QuarantineFunc func(original, backup string, cause error)

// fileOps holds the filesystem calls the store makes.
type fileOps struct {
	readFile  func(string) ([]byte, error)
	writeFile func(string, []byte, os.FileMode) error
	rename    func(string, string) error
	remove    func(string) error
	mkdirAll  func(string, os.FileMode) error
}

func osFileOps() fileOps {
	return fileOps{
		readFile:  os.ReadFile,
		writeFile: os.WriteFile,
		rename:    os.Rename,
		remove:    os.Remove,
		mkdirAll:  os.MkdirAll,
	}
}

// Store reads and writes the workspace file. It performs no locking; callers
// must not run Load or Save concurrently.
type Store struct {
	resolver     Resolver
	logger       *zap.Logger
	now          func() time.Time
	onQuarantine QuarantineFunc
	fs           fileOps
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for temp and backup file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithQuarantineHook registers fn to run after a corrupt file was moved aside.
func WithQuarantineHook(fn QuarantineFunc) Option {
	return func(s *Store) {
		s.onQuarantine = fn
	}
}

// New builds a store that asks resolver for the workspace file location.
func New(resolver Resolver, opts ...Option) *Store {
	s := &Store{
		resolver: resolver,
		logger:   zap.NewNop(),
		now:      time.Now,
		fs:       osFileOps(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path resolves the workspace file and makes sure its directory exists.
func (s *Store) Path() (string, error) {
	if s.resolver == nil {
		return "", newError(KindPathResolution, "resolve", "", errors.New("no resolver configured"))
	}
	path, err := s.resolver.WorkspacePath()
	if err != nil {
		return "", newError(KindPathResolution, "resolve", "", err)
	}
	dir := filepath.Dir(path)
	if err := s.fs.mkdirAll(dir, 0o755); err != nil {
		return "", newError(KindPathResolution, "mkdir", dir, err)
	}
	return path, nil
}

// Load returns the saved workspace, or nil when there is none. A corrupt file
// is quarantined and reported as nil; only I/O and path failures are errors.
func (s *Store) Load() (*model.Workspace, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}
	data, err := s.fs.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no workspace file", zap.String("path", path))
			return nil, nil
		}
		return nil, newError(KindIO, "read", path, err)
	}
	ws, err := Decode(data)
	if err != nil {
		s.quarantine(path, err)
		return nil, nil
	}
	s.logger.Debug("workspace loaded",
		zap.String("path", path),
		zap.Int("documents", len(ws.Documents)),
		zap.Int("tabs", len(ws.Tabs)))
	return &ws, nil
}

// Save replaces the workspace file with ws.
func (s *Store) Save(ws model.Workspace) error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	data, err := Encode(ws)
	if err != nil {
		return err
	}
	if err := s.writeAtomic(path, data); err != nil {
		return err
	}
	s.logger.Debug("workspace saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// writeAtomic writes data next to path and renames it into place. On failure
// the temporary file is left behind for manual recovery.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s%s%d", path, tmpMarker, s.now().UnixMilli())
	if err := s.fs.writeFile(tmp, data, 0o644); err != nil {
		return newError(KindIO, "write", tmp, err)
	}
	err := s.fs.rename(tmp, path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return newError(KindIO, "rename", path, err)
	}
	// Platforms without atomic replace refuse to rename onto an existing file.
	s.logger.Debug("replacing existing workspace file", zap.String("path", path), zap.Error(err))
	if rmErr := s.fs.remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		s.logger.Warn("failed to remove existing workspace file", zap.String("path", path), zap.Error(rmErr))
	}
	if err := s.fs.rename(tmp, path); err != nil {
		return newError(KindIO, "rename", path, err)
	}
	return nil
}

func (s *Store) quarantine(path string, cause error) {
	backup := fmt.Sprintf("%s%s%d", path, brokenMarker, s.now().UnixMilli())
	if err := s.fs.rename(path, backup); err != nil {
		s.logger.Warn("corrupt workspace file could not be moved aside",
			zap.String("path", path),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	s.logger.Warn("quarantined corrupt workspace file",
		zap.String("path", path),
		zap.String("backup", backup),
		zap.NamedError("cause", cause))
	if s.onQuarantine != nil {
		s.onQuarantine(path, backup, cause)
	}
}

// Encode renders ws in the canonical file form: two-space indentation, no
// HTML escaping and a single trailing newline.
func Encode(ws model.Workspace) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ws); err != nil {
		return nil, newError(KindEncode, "encode", "", err)
	}
	return buf.Bytes(), nil
}

// Decode parses file content into a workspace.
func Decode(data []byte) (model.Workspace, error) {
	if !utf8.Valid(data) {
		return model.Workspace{}, newError(KindDecode, "decode", "", errors.New("content is not valid UTF-8"))
	}
	var ws model.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return model.Workspace{}, newError(KindDecode, "decode", "", err)
	}
	return ws, nil
}
