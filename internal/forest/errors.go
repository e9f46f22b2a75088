// Package forest builds the include forest of a set of procedure files.
//
// Each procedure file becomes a Procedure node whose children are the
// functions it defines and the procedures it includes. Included files are
// resolved recursively against a single include directory; a procedure is
// expanded at most once per build; later references to it, and references
// to files that do not exist, become childless placeholder nodes.
//
// # Lifecycle
//
// A Registry lives for exactly one Build call. Resolution is a single
// depth-first walk; the Registry is nevertheless safe for concurrent use and
// its Begin method is the one atomic claim on a procedure name.
package forest

import "errors"

// Sentinel errors for forest operations.
var (
	// ErrFileUnreadable is returned when a discovered or included file
	// cannot be opened or read. The build is abandoned.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrSubtreeNotFound is returned by Find when no direct child of the
	// root has the requested name.
	ErrSubtreeNotFound = errors.New("subtree not found")
)
