package patchers

import (
	"fmt"
)

type Kind int

const (
	KindIORead Kind = iota + 1
	KindIOWrite
	KindLineIndexOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindIORead:
		return "io-read"
	case KindIOWrite:
		return "io-write"
	case KindLineIndexOutOfRange:
		return "line-index-out-of-range"
	default:
		return "unknown"
	}
}

// PatchError is returned by patchers when a file could not be read, written or does
// not contain the line to be patched.
type PatchError struct {
	Kind Kind
	File string
	Line int

	err error
}

func readError(file string, err error) *PatchError {
	return &PatchError{Kind: KindIORead, File: file, err: err}
}

func writeError(file string, err error) *PatchError {
	return &PatchError{Kind: KindIOWrite, File: file, err: err}
}

func lineError(file string, line, lines int) *PatchError {
	return &PatchError{
		Kind: KindLineIndexOutOfRange,
		File: file,
		Line: line,
		err:  fmt.Errorf("file has %d line(s)", lines),
	}
}

func (e *PatchError) Error() string {
	switch e.Kind {
	case KindIORead:
		return fmt.Sprintf("error reading patch file %s: %v", e.File, e.err)
	case KindIOWrite:
		return fmt.Sprintf("error writing patch file %s: %v", e.File, e.err)
	case KindLineIndexOutOfRange:
		return fmt.Sprintf("line %d does not exist in %s: %v", e.Line, e.File, e.err)
	default:
		return fmt.Sprintf("error patching %s: %v", e.File, e.err)
	}
}

func (e *PatchError) Unwrap() error {
	return e.err
}

// Is makes errors.Is match any PatchError of the same kind.
func (e *PatchError) Is(target error) bool {
	t, ok := target.(*PatchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.File == "" && t.err == nil
}

var (
	ErrIORead              = &PatchError{Kind: KindIORead}
	ErrIOWrite             = &PatchError{Kind: KindIOWrite}
	ErrLineIndexOutOfRange = &PatchError{Kind: KindLineIndexOutOfRange}
)
