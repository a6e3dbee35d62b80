package store

import (
	"errors"
	"path/filepath"
)

// FileName is the name of the workspace file inside the data directory.
const FileName = "workspace.json"

// Resolver locates the workspace file. Implementations are provided by the
// host application.
type Resolver interface {
	WorkspacePath() (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() (string, error)

// WorkspacePath implements Resolver.
func (f ResolverFunc) WorkspacePath() (string, error) {
	return f()
}

// DataDir resolves to FileName inside the directory it names.
type DataDir string

// WorkspacePath implements Resolver.
func (d DataDir) WorkspacePath() (string, error) {
	if d == "" {
		return "", errors.New("data directory is not set")
	}
	return filepath.Join(string(d), FileName), nil
}
