// Package suspend freezes and unfreezes every thread of a process.
//
// Operations are best effort across threads: each thread is attempted
// independently and the per-thread outcomes are returned, never rolled back.
// The OS keeps a reentrant suspend count per thread; this package issues
// exactly one suspend or resume per thread per call and does not track depth.
package suspend

import (
	"context"
	"errors"
	"fmt"

	"gpause/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sync/errgroup"
)

// ThreadOutcome is what happened to one thread.
type ThreadOutcome struct {
	ID  process.ThreadID
	Err error
}

// Result aggregates the outcome of one SetSuspended call.
type Result struct {
	PID       process.ProcessID
	Suspended bool // requested state

	// Stale is set when the process exited or its pid was reused before the
	// call ran. Nothing was attempted.
	Stale bool

	// Lookup is set when the process could not be re-read for another
	// reason, such as missing rights. Nothing was attempted.
	Lookup error

	Threads []ThreadOutcome
}

// Succeeded returns the number of threads whose state changed.
func (r Result) Succeeded() int {
	n := 0
	for _, t := range r.Threads {
		if t.Err == nil {
			n++
		}
	}
	return n
}

// AccessDenied reports whether any thread could not be opened or changed
// because of missing rights.
func (r Result) AccessDenied() bool {
	if errors.Is(r.Lookup, process.ErrAccessDenied) {
		return true
	}
	for _, t := range r.Threads {
		if errors.Is(t.Err, process.ErrAccessDenied) {
			return true
		}
	}
	return false
}

// Partial reports whether some threads changed state and others did not.
func (r Result) Partial() bool {
	ok := r.Succeeded()
	return ok > 0 && ok < len(r.Threads)
}

// Err joins the lookup and per-thread errors, ignoring threads that exited
// mid-call.
func (r Result) Err() error {
	var errs []error
	if r.Lookup != nil {
		errs = append(errs, r.Lookup)
	}
	for _, t := range r.Threads {
		if t.Err != nil && !errors.Is(t.Err, process.ErrStaleReference) {
			errs = append(errs, fmt.Errorf("thread %d: %w", t.ID, t.Err))
		}
	}
	return errors.Join(errs...)
}

// Engine issues suspend and resume primitives against a process.System.
type Engine struct {
	sys process.System
	log *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an Engine over sys.
func New(sys process.System, opts ...Option) *Engine {
	e := &Engine{sys: sys}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "suspend"))
	}
	return e
}

// Suspend suspends every thread of d.
func (e *Engine) Suspend(ctx context.Context, d process.Descriptor) Result {
	return e.SetSuspended(ctx, d, true)
}

// Resume resumes every thread of d.
func (e *Engine) Resume(ctx context.Context, d process.Descriptor) Result {
	return e.SetSuspended(ctx, d, false)
}

// SetSuspended suspends or resumes every thread currently belonging to d.
// The thread list is enumerated fresh. With more than one thread all calls
// are issued concurrently and joined before returning. ctx scopes the
// process lookup only; an in-flight fan-out is never cancelled.
func (e *Engine) SetSuspended(ctx context.Context, d process.Descriptor, suspended bool) Result {
	res := Result{PID: d.PID, Suspended: suspended}

	entry, err := e.resolve(ctx, d)
	if errors.Is(err, process.ErrStaleReference) {
		res.Stale = true
		return res
	}
	if err != nil {
		e.log.Warn("Lookup ", d.String(), ": ", err)
		res.Lookup = err
		return res
	}

	threads := entry.Threads
	res.Threads = make([]ThreadOutcome, len(threads))

	verb := "Resuming"
	if suspended {
		verb = "Suspending"
	}
	e.log.Infoln(verb, "process", d.String(), "threads:", len(threads))

	switch len(threads) {
	case 0:
	case 1:
		res.Threads[0] = e.apply(d.PID, threads[0].ID, suspended)
	default:
		// one goroutine per thread, unbounded
		var g errgroup.Group
		for i, t := range threads {
			g.Go(func() error {
				res.Threads[i] = e.apply(d.PID, t.ID, suspended)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := res.Err(); err != nil {
		e.log.Warn(verb, " ", d.String(), ": ", res.Succeeded(), "/", len(threads), " threads changed: ", err)
	}
	return res
}

// Terminate ends the process behind d. A process that already exited, or
// whose pid was reused, is left alone.
func (e *Engine) Terminate(ctx context.Context, d process.Descriptor) error {
	_, err := e.resolve(ctx, d)
	if errors.Is(err, process.ErrStaleReference) {
		return nil
	}
	if err != nil {
		return err
	}

	e.log.Infoln("Terminating process", d.String())
	err = e.sys.Terminate(d.PID)
	if errors.Is(err, process.ErrStaleReference) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("terminate %s: %w", d, err)
	}
	return nil
}

// resolve re-reads the process behind d and checks it is still the same one.
// A process that exited or whose pid was reused yields ErrStaleReference;
// any other lookup failure is returned wrapped.
func (e *Engine) resolve(ctx context.Context, d process.Descriptor) (process.ProcessEntry, error) {
	entry, err := e.sys.Process(ctx, d.PID)
	if err != nil {
		if errors.Is(err, process.ErrStaleReference) {
			e.log.Debugln("Process", d.String(), "is gone:", err)
		}
		return process.ProcessEntry{}, fmt.Errorf("lookup %s: %w", d, err)
	}
	if !d.Matches(entry) {
		e.log.Debugln("Process", d.String(), "pid reused by", entry.Name)
		return process.ProcessEntry{}, fmt.Errorf("%s: pid reused by %s: %w", d, entry.Name, process.ErrStaleReference)
	}
	return entry, nil
}

// apply opens one thread, issues the primitive and always closes the handle.
// Failures stay scoped to this thread.
func (e *Engine) apply(pid process.ProcessID, tid process.ThreadID, suspended bool) (out ThreadOutcome) {
	out.ID = tid

	h, err := e.sys.OpenThread(pid, tid)
	if err != nil {
		out.Err = err
		return out
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			e.log.Debugln("Failed to close thread handle", tid, cerr)
		}
	}()

	if suspended {
		out.Err = h.Suspend()
	} else {
		out.Err = h.Resume()
	}
	return out
}
