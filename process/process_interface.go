package process

import "context"

// System is the OS surface the inspector, the suspension engine and the
// window controller are built on. Implementations must classify failures into
// ErrAccessDenied, ErrStaleReference, ErrNoWindow and ErrNotSupported so
// callers can absorb them per entity.
type System interface {
	// Processes returns every running process with its current thread list
	Processes(ctx context.Context) ([]ProcessEntry, error)

	// Process returns one process with a fresh thread list, or ErrStaleReference
	Process(ctx context.Context, pid ProcessID) (ProcessEntry, error)

	// ExecutablePath resolves the absolute path of the binary backing pid
	ExecutablePath(ctx context.Context, pid ProcessID) (string, error)

	// MainWindows returns the main top-level window of each process that has one
	MainWindows(ctx context.Context) (map[ProcessID]Window, error)

	// OpenThread opens tid with suspend/resume rights only. The caller owns
	// the returned handle and must Close it.
	OpenThread(pid ProcessID, tid ThreadID) (ThreadHandle, error)

	// ShowWindow issues a single window-state command
	ShowWindow(w WindowHandle, mode WindowMode) error

	// Terminate ends the process
	Terminate(pid ProcessID) error

	// Self returns the pid of the calling process
	Self() ProcessID
}

// ThreadHandle is an open handle to one thread, scoped to a single suspend or
// resume call.
type ThreadHandle interface {
	// Suspend increments the OS suspend count of the thread
	Suspend() error

	// Resume decrements the OS suspend count of the thread
	Resume() error

	// Close releases the handle
	Close() error
}
