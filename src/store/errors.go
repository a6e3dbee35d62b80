package store

import "fmt"

// Kind classifies store failures.
type Kind string

const (
	// KindPathResolution means the storage directory could not be determined or created.
	KindPathResolution Kind = "path_resolution"
	// KindIO covers read, write and rename failures.
	KindIO Kind = "io"
	// KindDecode means the file content is not a valid workspace. Load converts
	// it into a quarantine and never returns it.
	KindDecode Kind = "decode"
	// KindEncode means the in-memory workspace could not be serialized.
	KindEncode Kind = "encode"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrPathResolution = &Error{Kind: KindPathResolution}
	ErrIO             = &Error{Kind: KindIO}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrEncode         = &Error{Kind: KindEncode}
)

// Error is returned by every failing store operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "workspace store: " + msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
