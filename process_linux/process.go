//go:build linux

package process_linux

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gpause/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/shirou/gopsutil/v3/common"
	gprocess "github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

// LinuxSystem implements process.System on top of procfs.
//
// Linux has no per-thread suspend count: a thread handle is an O_PATH
// descriptor on /proc/<pid>/task/<tid>, Suspend sends SIGSTOP and Resume
// sends SIGCONT to that thread with tgkill. Stopping any thread stops the
// whole thread group, and a stopped thread reports state 'T', which maps to
// the suspended wait reason. There are no windows.
type LinuxSystem struct {
	root string
	log  *logger.Logger
}

// Option configures a LinuxSystem.
type Option func(*LinuxSystem)

// WithRoot points the backend at a procfs mount other than /proc.
func WithRoot(root string) Option {
	return func(s *LinuxSystem) {
		s.root = root
	}
}

// New creates a LinuxSystem.
func New(opts ...Option) *LinuxSystem {
	s := &LinuxSystem{
		root: "/proc",
		log:  logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procfs")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// withRoot hands the procfs root to gopsutil.
func (s *LinuxSystem) withRoot(ctx context.Context) context.Context {
	return context.WithValue(ctx, common.EnvKey, common.EnvMap{common.HostProcEnvKey: s.root})
}

func (s *LinuxSystem) pidPath(pid process.ProcessID, elem ...string) string {
	return filepath.Join(append([]string{s.root, strconv.Itoa(int(pid))}, elem...)...)
}

func (s *LinuxSystem) Processes(ctx context.Context) ([]process.ProcessEntry, error) {
	pids, err := gprocess.PidsWithContext(s.withRoot(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.root, err)
	}

	out := make([]process.ProcessEntry, 0, len(pids))
	for _, pid := range pids {
		e, err := s.Process(ctx, process.ProcessID(pid))
		switch {
		case err == nil:
			out = append(out, e)
		case errors.Is(err, process.ErrAccessDenied):
			// hidepid and friends: keep the row so the caller can flag it
			out = append(out, s.deniedEntry(ctx, process.ProcessID(pid)))
		case errors.Is(err, process.ErrStaleReference):
			// exited since the pid list was read
		default:
			s.log.Debugln("Skipping process", pid, err)
		}
	}
	return out, nil
}

func (s *LinuxSystem) Process(ctx context.Context, pid process.ProcessID) (process.ProcessEntry, error) {
	st, err := readStat(s.pidPath(pid, "stat"))
	if err != nil {
		return process.ProcessEntry{}, fmt.Errorf("process %d: %w", pid, classify(err))
	}

	p := &gprocess.Process{Pid: int32(pid)}
	name, err := p.NameWithContext(s.withRoot(ctx))
	if err != nil || name == "" {
		name = st.comm
	}

	threads, err := s.threads(pid)
	if err != nil {
		return process.ProcessEntry{}, fmt.Errorf("process %d: %w", pid, classify(err))
	}

	return process.ProcessEntry{
		PID:       pid,
		Name:      name,
		StartTime: st.startTime,
		Threads:   threads,
	}, nil
}

// deniedEntry is the best-effort record of a process whose stat could not be
// read. The name comes from gopsutil when it is readable.
func (s *LinuxSystem) deniedEntry(ctx context.Context, pid process.ProcessID) process.ProcessEntry {
	p := &gprocess.Process{Pid: int32(pid)}
	name, _ := p.NameWithContext(s.withRoot(ctx))
	return process.ProcessEntry{PID: pid, Name: name, AccessDenied: true}
}

// threads reads /proc/<pid>/task/*/stat. Threads exiting mid-read are skipped.
func (s *LinuxSystem) threads(pid process.ProcessID) ([]process.ThreadInfo, error) {
	entries, err := os.ReadDir(s.pidPath(pid, "task"))
	if err != nil {
		return nil, err
	}

	var out []process.ThreadInfo
	for _, e := range entries {
		tid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		st, err := readStat(s.pidPath(pid, "task", e.Name(), "stat"))
		if err != nil {
			continue
		}
		state, reason := st.state.threadState()
		out = append(out, process.ThreadInfo{
			ID:         process.ThreadID(tid),
			State:      state,
			WaitReason: reason,
		})
	}
	return out, nil
}

func (s *LinuxSystem) ExecutablePath(ctx context.Context, pid process.ProcessID) (string, error) {
	p := &gprocess.Process{Pid: int32(pid)}
	exe, err := p.ExeWithContext(s.withRoot(ctx))
	if err == nil {
		return exe, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		if !procExists(s.pidPath(pid)) {
			return "", fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
		}
		// kernel threads have no executable
		return "", nil
	}
	return "", fmt.Errorf("exe of process %d: %w", pid, classify(err))
}

func (s *LinuxSystem) MainWindows(ctx context.Context) (map[process.ProcessID]process.Window, error) {
	return nil, fmt.Errorf("windows on linux: %w", process.ErrNotSupported)
}

func (s *LinuxSystem) OpenThread(pid process.ProcessID, tid process.ThreadID) (process.ThreadHandle, error) {
	path := s.pidPath(pid, "task", strconv.Itoa(int(tid)))
	fd, err := unix.Open(path, unix.O_PATH|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open thread %d: %w", tid, classify(err))
	}
	return &threadHandle{fd: fd, pid: pid, tid: tid}, nil
}

func (s *LinuxSystem) ShowWindow(w process.WindowHandle, mode process.WindowMode) error {
	return fmt.Errorf("windows on linux: %w", process.ErrNotSupported)
}

// Terminate sends SIGKILL to the process.
func (s *LinuxSystem) Terminate(pid process.ProcessID) error {
	if err := unix.Kill(int(pid), unix.SIGKILL); err != nil {
		return fmt.Errorf("failed to send signal %v to process %d: %w", unix.SIGKILL, pid, classify(err))
	}
	s.log.Infoln("Killed process", pid)
	return nil
}

func (s *LinuxSystem) Self() process.ProcessID {
	return process.ProcessID(os.Getpid())
}

// threadHandle pins one thread through an O_PATH descriptor.
type threadHandle struct {
	fd  int
	pid process.ProcessID
	tid process.ThreadID
}

func (h *threadHandle) signal(sig unix.Signal) error {
	// Use raw tgkill so it works for non-child processes and targets the
	// thread within its own group only.
	if err := unix.Tgkill(int(h.pid), int(h.tid), sig); err != nil {
		return fmt.Errorf("tgkill %d/%d %v: %w", h.pid, h.tid, sig, classify(err))
	}
	return nil
}

func (h *threadHandle) Suspend() error {
	return h.signal(unix.SIGSTOP)
}

func (h *threadHandle) Resume() error {
	return h.signal(unix.SIGCONT)
}

func (h *threadHandle) Close() error {
	if h.fd < 0 {
		return nil
	}
	err := unix.Close(h.fd)
	h.fd = -1
	return err
}
