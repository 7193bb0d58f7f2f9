// Package manager composes inspection, thread suspension and window state
// into the pause and unpause commands an operator issues.
package manager

import (
	"context"
	"errors"
	"fmt"

	"gpause/inspect"
	"gpause/process"
	"gpause/suspend"
	"gpause/window"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Policy says which window command goes with a pause or an unpause.
type Policy struct {
	MinimizeOnPause bool
	RestoreOnResume bool
}

// DefaultPolicy minimizes before suspending and restores after resuming.
var DefaultPolicy = Policy{MinimizeOnPause: true, RestoreOnResume: true}

// Manager is the single entry point used by front ends.
type Manager struct {
	Inspector *inspect.Inspector
	Engine    *suspend.Engine
	Windows   *window.Controller

	policy Policy
	log    *logger.Logger
}

// New wires a Manager over sys.
func New(sys process.System, policy Policy, opts ...inspect.Option) *Manager {
	return &Manager{
		Inspector: inspect.New(sys, opts...),
		Engine:    suspend.New(sys),
		Windows:   window.New(sys),
		policy:    policy,
		log:       logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "manager")),
	}
}

// List returns a fresh snapshot.
func (m *Manager) List(ctx context.Context) (inspect.Snapshot, error) {
	return m.Inspector.EnumerateProcesses(ctx)
}

// Find looks pid up in a fresh snapshot. Denylisted and windowless
// processes are not found, so they can never be paused through a Manager.
func (m *Manager) Find(ctx context.Context, pid process.ProcessID) (process.Descriptor, error) {
	snap, err := m.List(ctx)
	if err != nil {
		return process.Descriptor{}, err
	}
	for _, d := range snap.Processes {
		if d.PID == pid {
			return d, nil
		}
	}
	return process.Descriptor{}, fmt.Errorf("process %d: %w", pid, process.ErrStaleReference)
}

// Outcome reports a pause or unpause and the state observed afterwards.
type Outcome struct {
	Result suspend.Result
	Window bool // a window command was issued

	// After is the descriptor re-inspected once the call finished. It is the
	// only reliable view of the outcome; zero when the process is gone.
	After process.Descriptor
}

// Pause minimizes the window of d (per policy) and suspends its threads.
func (m *Manager) Pause(ctx context.Context, d process.Descriptor) (Outcome, error) {
	var out Outcome
	if m.policy.MinimizeOnPause {
		shown, err := m.Windows.Minimize(ctx, d)
		if err != nil {
			m.log.Warn("Minimize ", d.String(), ": ", err)
		}
		out.Window = shown
	}

	out.Result = m.Engine.Suspend(ctx, d)
	return m.verify(ctx, d, out)
}

// Unpause resumes the threads of d and restores its window (per policy).
func (m *Manager) Unpause(ctx context.Context, d process.Descriptor) (Outcome, error) {
	var out Outcome
	out.Result = m.Engine.Resume(ctx, d)

	if m.policy.RestoreOnResume {
		shown, err := m.Windows.Restore(ctx, d)
		if err != nil {
			m.log.Warn("Restore ", d.String(), ": ", err)
		}
		out.Window = shown
	}
	return m.verify(ctx, d, out)
}

// Kill terminates d.
func (m *Manager) Kill(ctx context.Context, d process.Descriptor) error {
	return m.Engine.Terminate(ctx, d)
}

func (m *Manager) verify(ctx context.Context, d process.Descriptor, out Outcome) (Outcome, error) {
	if out.Result.Stale || out.Result.Lookup != nil {
		return out, nil
	}
	after, err := m.Inspector.Lookup(ctx, d.PID)
	if errors.Is(err, process.ErrStaleReference) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("re-inspect %s: %w", d, err)
	}
	out.After = after
	return out, nil
}
