// Package inspect enumerates running processes into immutable descriptors.
//
// Every call is a fresh, full scan: nothing is cached between calls, so a
// snapshot costs O(processes x threads) but never reports stale state.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gpause/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Snapshot is the result of one inspection pass.
type Snapshot struct {
	Processes []process.Descriptor `json:"processes"`

	// LackPermissions is set when at least one executable path could not be
	// resolved because access was denied. Running elevated usually fixes it.
	LackPermissions bool `json:"lack_permissions"`
}

// Inspector turns a process.System into descriptor snapshots.
type Inspector struct {
	sys           process.System
	deny          process.Denylist
	requireWindow bool
	log           *logger.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithDenylist replaces the default denylist.
func WithDenylist(d process.Denylist) Option {
	return func(i *Inspector) {
		i.deny = d
	}
}

// WithRequireWindow controls whether processes without a window title are
// dropped. It defaults to true.
func WithRequireWindow(require bool) Option {
	return func(i *Inspector) {
		i.requireWindow = require
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(i *Inspector) {
		i.log = l
	}
}

// New creates an Inspector over sys.
func New(sys process.System, opts ...Option) *Inspector {
	i := &Inspector{
		sys:           sys,
		deny:          process.DefaultDenylist(),
		requireWindow: true,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		i.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "inspect"))
	}
	return i
}

// Denylist returns the denylist in use.
func (i *Inspector) Denylist() process.Denylist {
	return i.deny
}

// EnumerateProcesses scans every running process and returns the eligible
// ones. Failures scoped to one process skip or flag that process; only a
// failure of the enumeration itself is returned.
func (i *Inspector) EnumerateProcesses(ctx context.Context) (Snapshot, error) {
	entries, err := i.sys.Processes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("enumerate processes: %w", err)
	}

	// no windows means every process is windowless, not a failed scan
	windows, err := i.sys.MainWindows(ctx)
	if err != nil && !errors.Is(err, process.ErrNotSupported) {
		i.log.Warn("Failed to enumerate windows: ", err)
	}

	self := i.sys.Self()
	var snap Snapshot

	for _, e := range entries {
		if e.PID == self || i.deny.Contains(e.Name) {
			continue
		}

		title := windows[e.PID].Title
		if title == "" && i.requireWindow {
			continue
		}

		d, denied, err := i.describe(ctx, e, title)
		if err != nil {
			i.log.Debugln("Skipping process", e.PID, e.Name, err)
			continue
		}
		if denied {
			snap.LackPermissions = true
		}
		snap.Processes = append(snap.Processes, d)
	}

	sort.Slice(snap.Processes, func(a, b int) bool {
		return snap.Processes[a].PID < snap.Processes[b].PID
	})

	i.log.Debugln("Inspected", len(entries), "processes,", len(snap.Processes), "eligible")
	return snap, nil
}

// Lookup inspects a single pid, ignoring the denylist and window filters.
// It returns process.ErrStaleReference when the pid is gone.
func (i *Inspector) Lookup(ctx context.Context, pid process.ProcessID) (process.Descriptor, error) {
	e, err := i.sys.Process(ctx, pid)
	if err != nil {
		return process.Descriptor{}, err
	}

	var title string
	if windows, err := i.sys.MainWindows(ctx); err == nil {
		title = windows[pid].Title
	}

	d, _, err := i.describe(ctx, e, title)
	return d, err
}

// Names returns the distinct names of every running process.
func (i *Inspector) Names(ctx context.Context) ([]string, error) {
	entries, err := i.sys.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}
	return process.Names(entries), nil
}

// describe builds the descriptor for e. denied reports an access-denied path
// lookup; err is only set when the process exited mid-scan.
func (i *Inspector) describe(ctx context.Context, e process.ProcessEntry, title string) (process.Descriptor, bool, error) {
	d := process.Descriptor{
		PID:         e.PID,
		Name:        e.Name,
		WindowTitle: title,
		Suspended:   e.HasSuspended(),
		Threads:     len(e.Threads),
		StartTime:   e.StartTime,
	}

	if e.AccessDenied {
		d.PathDenied = true
		i.log.Debugln("Process", e.PID, "is not readable")
		return d, true, nil
	}

	path, err := i.sys.ExecutablePath(ctx, e.PID)
	switch {
	case err == nil:
		d.ExecutablePath = path
	case errors.Is(err, process.ErrStaleReference):
		return process.Descriptor{}, false, err
	case errors.Is(err, process.ErrAccessDenied):
		d.PathDenied = true
		i.log.Debugln("Executable path denied for", e.PID, e.Name)
	default:
		// keep the row, the path is simply unknown
		i.log.Warn("Failed to resolve executable path for ", e.Name, ": ", err)
	}

	return d, d.PathDenied, nil
}
