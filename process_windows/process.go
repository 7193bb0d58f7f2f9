//go:build windows

package process_windows

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"gpause/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
	moduser32   = windows.NewLazySystemDLL("user32.dll")

	procSuspendThread        = modkernel32.NewProc("SuspendThread")
	procShowWindow           = moduser32.NewProc("ShowWindow")
	procGetWindow            = moduser32.NewProc("GetWindow")
	procGetWindowTextW       = moduser32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = moduser32.NewProc("GetWindowTextLengthW")
)

const (
	gwOwner = 4

	// SuspendThread and ResumeThread return (DWORD)-1 on failure
	threadCallFailed = 0xFFFFFFFF

	maxLongPath = 32768
)

// WindowsSystem implements process.System with the Win32 and native APIs.
type WindowsSystem struct {
	log *logger.Logger
}

// New creates a WindowsSystem.
func New() *WindowsSystem {
	return &WindowsSystem{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "win32")),
	}
}

func (s *WindowsSystem) Processes(ctx context.Context) ([]process.ProcessEntry, error) {
	buf, err := querySystemProcesses()
	if err != nil {
		return nil, err
	}
	return parseSystemProcesses(buf), nil
}

func (s *WindowsSystem) Process(ctx context.Context, pid process.ProcessID) (process.ProcessEntry, error) {
	entries, err := s.Processes(ctx)
	if err != nil {
		return process.ProcessEntry{}, err
	}
	for _, e := range entries {
		if e.PID == pid {
			return e, nil
		}
	}
	return process.ProcessEntry{}, fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
}

func (s *WindowsSystem) ExecutablePath(ctx context.Context, pid process.ProcessID) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", fmt.Errorf("OpenProcess %d: %w", pid, classify(err))
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, maxLongPath)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName %d: %w", pid, classify(err))
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (s *WindowsSystem) OpenThread(pid process.ProcessID, tid process.ThreadID) (process.ThreadHandle, error) {
	h, err := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, uint32(tid))
	if err != nil {
		return nil, fmt.Errorf("OpenThread %d: %w", tid, classify(err))
	}
	return &threadHandle{handle: h, tid: tid}, nil
}

func (s *WindowsSystem) ShowWindow(w process.WindowHandle, mode process.WindowMode) error {
	if !windows.IsWindow(windows.HWND(w)) {
		return fmt.Errorf("window %#x: %w", w, process.ErrNoWindow)
	}
	// the return value is the previous visibility, not an error
	procShowWindow.Call(uintptr(w), uintptr(mode))
	return nil
}

func (s *WindowsSystem) Terminate(pid process.ProcessID) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess %d: %w", pid, classify(err))
	}
	defer windows.CloseHandle(h)

	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("TerminateProcess %d: %w", pid, classify(err))
	}
	s.log.Infoln("Terminated process", pid)
	return nil
}

func (s *WindowsSystem) Self() process.ProcessID {
	return process.ProcessID(windows.GetCurrentProcessId())
}

// threadHandle is a thread handle opened with THREAD_SUSPEND_RESUME only.
type threadHandle struct {
	handle windows.Handle
	tid    process.ThreadID
}

func (h *threadHandle) Suspend() error {
	ret, _, err := procSuspendThread.Call(uintptr(h.handle))
	if uint32(ret) == threadCallFailed {
		return fmt.Errorf("SuspendThread %d: %w", h.tid, classify(err))
	}
	return nil
}

func (h *threadHandle) Resume() error {
	if _, err := windows.ResumeThread(h.handle); err != nil {
		return fmt.Errorf("ResumeThread %d: %w", h.tid, classify(err))
	}
	return nil
}

func (h *threadHandle) Close() error {
	if h.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(h.handle)
	h.handle = 0
	if err != nil {
		return fmt.Errorf("CloseHandle failed: %v", err)
	}
	return nil
}

// classify maps Win32 errors onto the process sentinel errors.
func classify(err error) error {
	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %w", process.ErrAccessDenied, err)
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER),
		errors.Is(err, windows.ERROR_INVALID_HANDLE):
		// OpenThread and OpenProcess report an exited id as invalid parameter
		return fmt.Errorf("%w: %w", process.ErrStaleReference, err)
	}
	return err
}

var (
	enumMu      sync.Mutex
	enumWindows map[process.ProcessID]process.Window

	// callbacks are a limited resource, create one for the process lifetime
	enumWindowsProc = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		var pid uint32
		if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
			return 1
		}
		if _, ok := enumWindows[process.ProcessID(pid)]; ok {
			return 1
		}
		if !isMainWindow(hwnd) {
			return 1
		}
		enumWindows[process.ProcessID(pid)] = process.Window{
			Handle: process.WindowHandle(hwnd),
			Title:  windowText(hwnd),
		}
		return 1
	})
)

// MainWindows walks the top-level windows once. The main window of a
// process is its first visible, unowned top-level window.
func (s *WindowsSystem) MainWindows(ctx context.Context) (map[process.ProcessID]process.Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumWindows = make(map[process.ProcessID]process.Window)
	defer func() { enumWindows = nil }()

	if err := windows.EnumWindows(enumWindowsProc, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return enumWindows, nil
}

func isMainWindow(hwnd windows.HWND) bool {
	owner, _, _ := procGetWindow.Call(uintptr(hwnd), gwOwner)
	return owner == 0 && windows.IsWindowVisible(hwnd)
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}
