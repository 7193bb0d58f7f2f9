// Package processtest provides an in-memory process.System for tests.
package processtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gpause/process"
)

// Thread is a fake thread. Suspend and Resume move a reentrant depth counter
// the way the OS does; the thread reports WaitSuspended while depth > 0.
type Thread struct {
	ID         process.ThreadID
	State      process.ThreadState
	WaitReason process.WaitReason

	// OpenErr is returned by OpenThread for this thread
	OpenErr error
	// CallErr is returned by Suspend and Resume after the call is counted
	CallErr error

	depth int
}

// Depth returns the current suspend count.
func (t *Thread) Depth() int {
	return t.depth
}

func (t *Thread) info() process.ThreadInfo {
	if t.depth > 0 {
		return process.ThreadInfo{ID: t.ID, State: process.ThreadWaiting, WaitReason: process.WaitSuspended}
	}
	return process.ThreadInfo{ID: t.ID, State: t.State, WaitReason: t.WaitReason}
}

// Proc is a fake process.
type Proc struct {
	PID       process.ProcessID
	Name      string
	StartTime uint64
	Path      string
	PathErr   error
	Window    *process.Window
	Threads   []*Thread

	// LookupErr is returned by Process for this pid
	LookupErr error
	// Denied makes the entry report AccessDenied with no threads
	Denied bool
}

// ShowCall records one ShowWindow command.
type ShowCall struct {
	Handle process.WindowHandle
	Mode   process.WindowMode
}

// System is a fake process.System. The zero value is not usable, use New.
type System struct {
	mu    sync.Mutex
	procs map[process.ProcessID]*Proc
	self  process.ProcessID

	// ProcessesErr fails the whole enumeration when set
	ProcessesErr error

	opened int
	closed int

	calls       int
	inFlight    int
	maxInFlight int
	rendezvous  int
	arrived     chan struct{}

	shown      []ShowCall
	terminated []process.ProcessID
}

// New returns a fake holding procs. Self defaults to pid 1.
func New(procs ...*Proc) *System {
	s := &System{
		procs: make(map[process.ProcessID]*Proc),
		self:  1,
	}
	for _, p := range procs {
		s.Add(p)
	}
	return s
}

// Add registers or replaces a process.
func (s *System) Add(p *Proc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procs[p.PID] = p
}

// Remove makes pid exit.
func (s *System) Remove(pid process.ProcessID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.procs, pid)
}

// SetSelf changes the pid reported by Self.
func (s *System) SetSelf(pid process.ProcessID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = pid
}

// Rendezvous makes every Suspend and Resume call block until n calls are in
// flight at once, or a second has passed. It proves calls are concurrent.
func (s *System) Rendezvous(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendezvous = n
	s.arrived = make(chan struct{})
}

// Handles returns how many thread handles were opened and closed.
func (s *System) Handles() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

// Calls returns the number of Suspend and Resume primitives issued.
func (s *System) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MaxInFlight returns the highest number of concurrent primitive calls seen.
func (s *System) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

// Shown returns the recorded ShowWindow commands.
func (s *System) Shown() []ShowCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShowCall(nil), s.shown...)
}

// Terminated returns the pids passed to Terminate.
func (s *System) Terminated() []process.ProcessID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]process.ProcessID(nil), s.terminated...)
}

func (s *System) entry(p *Proc) process.ProcessEntry {
	e := process.ProcessEntry{PID: p.PID, Name: p.Name, StartTime: p.StartTime}
	if p.Denied {
		e.AccessDenied = true
		return e
	}
	for _, t := range p.Threads {
		e.Threads = append(e.Threads, t.info())
	}
	return e
}

func (s *System) Processes(ctx context.Context) ([]process.ProcessEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ProcessesErr != nil {
		return nil, s.ProcessesErr
	}
	out := make([]process.ProcessEntry, 0, len(s.procs))
	for _, p := range s.procs {
		out = append(out, s.entry(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

func (s *System) Process(ctx context.Context, pid process.ProcessID) (process.ProcessEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return process.ProcessEntry{}, fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
	}
	if p.LookupErr != nil {
		return process.ProcessEntry{}, p.LookupErr
	}
	return s.entry(p), nil
}

func (s *System) ExecutablePath(ctx context.Context, pid process.ProcessID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return "", fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
	}
	if p.PathErr != nil {
		return "", p.PathErr
	}
	return p.Path, nil
}

func (s *System) MainWindows(ctx context.Context) (map[process.ProcessID]process.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[process.ProcessID]process.Window)
	for pid, p := range s.procs {
		if p.Window != nil {
			out[pid] = *p.Window
		}
	}
	return out, nil
}

func (s *System) OpenThread(pid process.ProcessID, tid process.ThreadID) (process.ThreadHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return nil, fmt.Errorf("thread %d: %w", tid, process.ErrStaleReference)
	}
	for _, t := range p.Threads {
		if t.ID != tid {
			continue
		}
		if t.OpenErr != nil {
			return nil, t.OpenErr
		}
		s.opened++
		return &handle{sys: s, thread: t}, nil
	}
	return nil, fmt.Errorf("thread %d: %w", tid, process.ErrStaleReference)
}

func (s *System) ShowWindow(w process.WindowHandle, mode process.WindowMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, ShowCall{Handle: w, Mode: mode})
	return nil
}

func (s *System) Terminate(pid process.ProcessID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.procs[pid]; !ok {
		return fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
	}
	delete(s.procs, pid)
	s.terminated = append(s.terminated, pid)
	return nil
}

func (s *System) Self() process.ProcessID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.self
}

// enter records a primitive call and waits at the rendezvous if one is set.
func (s *System) enter() {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	arrived := s.arrived
	if arrived != nil && s.inFlight >= s.rendezvous {
		close(arrived)
		s.arrived = nil
	}
	s.mu.Unlock()

	if arrived != nil {
		select {
		case <-arrived:
		case <-time.After(time.Second):
		}
	}
}

func (s *System) leave() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

type handle struct {
	sys    *System
	thread *Thread
	closed bool
}

func (h *handle) Suspend() error {
	h.sys.enter()
	defer h.sys.leave()

	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.thread.CallErr != nil {
		return h.thread.CallErr
	}
	h.thread.depth++
	return nil
}

func (h *handle) Resume() error {
	h.sys.enter()
	defer h.sys.leave()

	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.thread.CallErr != nil {
		return h.thread.CallErr
	}
	if h.thread.depth > 0 {
		h.thread.depth--
	}
	return nil
}

func (h *handle) Close() error {
	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.closed {
		return fmt.Errorf("handle for thread %d closed twice", h.thread.ID)
	}
	h.closed = true
	h.sys.closed++
	return nil
}
