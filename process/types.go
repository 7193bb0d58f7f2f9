package process

import "fmt"

// ProcessID represents a unique identifier for a process
type ProcessID int

// ThreadID represents a unique identifier for a thread
type ThreadID int

// WindowHandle is an opaque OS window handle
type WindowHandle uintptr

// ThreadInfo is the state of one thread at enumeration time
type ThreadInfo struct {
	ID         ThreadID    // Thread ID
	State      ThreadState // Scheduler state
	WaitReason WaitReason  // Why the thread waits, only meaningful when State is ThreadWaiting
}

// IsSuspended reports whether the thread is waiting because it was suspended.
// Threads waiting for any other reason (I/O, events, ...) are not suspended.
func (t ThreadInfo) IsSuspended() bool {
	return t.State == ThreadWaiting && t.WaitReason.Suspended()
}

// ProcessEntry is the raw record a System returns for one running process
type ProcessEntry struct {
	PID       ProcessID    // Process ID
	Name      string       // Executable base name without extension
	StartTime uint64       // Creation time in backend units, 0 if unknown
	Threads   []ThreadInfo // Threads at enumeration time

	// AccessDenied is set when the process is visible but its details could
	// not be read. Name may be empty and Threads is nil.
	AccessDenied bool
}

// HasSuspended reports whether at least one thread is suspended.
func (e ProcessEntry) HasSuspended() bool {
	for _, t := range e.Threads {
		if t.IsSuspended() {
			return true
		}
	}
	return false
}

// Window is the main top-level window of a process
type Window struct {
	Handle WindowHandle
	Title  string
}

// Descriptor is an immutable point-in-time snapshot of one process.
// Descriptors are never updated; inspect again to get fresh state.
type Descriptor struct {
	PID            ProcessID `json:"pid"`
	Name           string    `json:"name"`
	WindowTitle    string    `json:"window_title"`
	ExecutablePath string    `json:"executable_path,omitempty"`
	PathDenied     bool      `json:"path_denied,omitempty"`
	Suspended      bool      `json:"suspended"`
	Threads        int       `json:"threads"`
	StartTime      uint64    `json:"start_time,omitempty"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%d)", d.Name, d.PID)
}

// Matches reports whether e still refers to the process d was taken from.
// A different name or start time means the pid was reused.
func (d Descriptor) Matches(e ProcessEntry) bool {
	if e.PID != d.PID || e.Name != d.Name {
		return false
	}
	if d.StartTime != 0 && e.StartTime != 0 && d.StartTime != e.StartTime {
		return false
	}
	return true
}
