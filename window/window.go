// Package window minimizes and restores the main window of a process.
package window

import (
	"context"
	"errors"
	"fmt"

	"gpause/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Controller issues window-state commands. It does not look at or change
// thread state.
type Controller struct {
	sys process.System
	log *logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New creates a Controller over sys.
func New(sys process.System, opts ...Option) *Controller {
	c := &Controller{sys: sys}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "window"))
	}
	return c
}

// SetWindowVisibility minimizes or restores the main window of the first
// running process named like d (lowest pid). The pid of d is not used, so a
// stale descriptor still reaches a live process of the same executable.
//
// A single command is issued with no retry and no verification. Finding no
// window is expected and reported as (false, nil); the bool is true when a
// command was sent.
func (c *Controller) SetWindowVisibility(ctx context.Context, d process.Descriptor, mode process.WindowMode) (bool, error) {
	matches, err := process.FindByName(ctx, c.sys, d.Name)
	if err != nil {
		return false, fmt.Errorf("find %s: %w", d.Name, err)
	}
	if len(matches) == 0 {
		c.log.Debugln("No running process named", d.Name)
		return false, nil
	}

	windows, err := c.sys.MainWindows(ctx)
	if errors.Is(err, process.ErrNotSupported) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("enumerate windows: %w", err)
	}

	target := matches[0]
	w, ok := windows[target.PID]
	if !ok || w.Handle == 0 {
		c.log.Debugln("Process", target.PID, d.Name, "has no main window")
		return false, nil
	}

	c.log.Infoln("Window", mode.String(), d.Name, "pid", target.PID)
	if err := c.sys.ShowWindow(w.Handle, mode); err != nil {
		if process.IsSoft(err) {
			c.log.Debugln("Window command ignored:", err)
			return false, nil
		}
		return false, fmt.Errorf("%s window of %s: %w", mode, d.Name, err)
	}
	return true, nil
}

// Minimize minimizes the main window of d.
func (c *Controller) Minimize(ctx context.Context, d process.Descriptor) (bool, error) {
	return c.SetWindowVisibility(ctx, d, process.WindowMinimize)
}

// Restore restores the main window of d.
func (c *Controller) Restore(ctx context.Context, d process.Descriptor) (bool, error) {
	return c.SetWindowVisibility(ctx, d, process.WindowRestore)
}
