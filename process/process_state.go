package process

// ThreadState is the scheduler state of a thread. Values follow the Windows
// KTHREAD_STATE numbering; other backends map onto it.
type ThreadState uint32

const (
	ThreadInitialized ThreadState = 0
	ThreadReady       ThreadState = 1
	ThreadRunning     ThreadState = 2
	ThreadStandby     ThreadState = 3
	ThreadTerminated  ThreadState = 4
	ThreadWaiting     ThreadState = 5
	ThreadTransition  ThreadState = 6
	ThreadUnknown     ThreadState = 7
)

func (s ThreadState) String() string {
	switch s {
	case ThreadInitialized:
		return "initialized"
	case ThreadReady:
		return "ready"
	case ThreadRunning:
		return "running"
	case ThreadStandby:
		return "standby"
	case ThreadTerminated:
		return "terminated"
	case ThreadWaiting:
		return "waiting"
	case ThreadTransition:
		return "transition"
	}
	return "unknown"
}

// WaitReason says why a waiting thread waits (KWAIT_REASON numbering).
type WaitReason uint32

const (
	WaitExecutive     WaitReason = 0
	WaitFreePage      WaitReason = 1
	WaitPageIn        WaitReason = 2
	WaitPoolAlloc     WaitReason = 3
	WaitDelay         WaitReason = 4
	WaitSuspended     WaitReason = 5
	WaitUserRequest   WaitReason = 6
	WaitWrSuspended   WaitReason = 12
	WaitWrUserRequest WaitReason = 13
	WaitWrQueue       WaitReason = 15
	WaitReasonOther   WaitReason = 0xFFFF
)

// Suspended reports whether the reason is one of the two suspend reasons.
func (r WaitReason) Suspended() bool {
	return r == WaitSuspended || r == WaitWrSuspended
}

// WindowMode is a window-state command
type WindowMode int

const (
	WindowMinimize WindowMode = 6 // SW_MINIMIZE
	WindowRestore  WindowMode = 9 // SW_RESTORE
)

func (m WindowMode) String() string {
	switch m {
	case WindowMinimize:
		return "minimize"
	case WindowRestore:
		return "restore"
	}
	return "unknown"
}
