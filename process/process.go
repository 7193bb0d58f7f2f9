// Package process defines the types and the OS surface shared by the
// inspector, the suspension engine and the window controller.
package process

import "errors"

// The layout of this package:
// - types.go: ProcessID, ThreadID, ThreadInfo, ProcessEntry, Descriptor, Window
// - process_state.go: ThreadState, WaitReason and WindowMode constants
// - process_interface.go: System and ThreadHandle interfaces
// - process_finder.go: name based lookups over a System
// - denylist.go: Denylist
// - path.go: executable name helpers

var (
	// ErrAccessDenied is returned when the caller lacks the rights to open a
	// process, thread or module. It is scoped to one entity and never fatal
	// for a batch.
	ErrAccessDenied = errors.New("access denied")

	// ErrStaleReference is returned when the target process or thread no
	// longer exists by the time the operation runs.
	ErrStaleReference = errors.New("stale reference")

	// ErrNoWindow is returned when no window matches a window-state command.
	ErrNoWindow = errors.New("no window")

	// ErrNotSupported is returned by backends that lack a capability.
	ErrNotSupported = errors.New("not supported")
)

// IsSoft reports whether err is an entity-scoped failure that callers absorb
// rather than propagate.
func IsSoft(err error) bool {
	return errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrStaleReference) ||
		errors.Is(err, ErrNoWindow) ||
		errors.Is(err, ErrNotSupported)
}
