package store

import (
	"errors"

	"outliner/src/model"
)

// ErrUnavailable is returned by Unavailable.Save.
var ErrUnavailable = errors.New("workspace repository is unavailable")

// Unavailable stands in for a store when no data directory can be used. It
// loads nothing and refuses to save.
type Unavailable struct{}

// Load always reports that there is no workspace.
func (Unavailable) Load() (*model.Workspace, error) {
	return nil, nil
}

// Save always fails with ErrUnavailable.
func (Unavailable) Save(model.Workspace) error {
	return ErrUnavailable
}
