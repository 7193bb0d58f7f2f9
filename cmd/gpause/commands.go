package main

import (
	"context"
	"fmt"
	"strconv"

	"gpause/manager"
	"gpause/process"
	"gpause/reveal"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running applications and whether they are suspended",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		snap, err := m.List(cmd.Context())
		if err != nil {
			return err
		}
		return printSnapshot(cmd.OutOrStdout(), snap)
	},
}

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List the distinct names of all running processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		names, err := m.Inspector.Names(cmd.Context())
		if err != nil {
			return err
		}
		return printNames(cmd.OutOrStdout(), names)
	},
}

var suspendCmd = &cobra.Command{
	Use:   "suspend PID",
	Short: "Suspend every thread of a process, leaving its window alone",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		res := m.Engine.Suspend(ctx, d)
		return printResult(cmd.OutOrStdout(), d, manager.Outcome{Result: res})
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume PID",
	Short: "Resume every thread of a process, leaving its window alone",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		res := m.Engine.Resume(ctx, d)
		return printResult(cmd.OutOrStdout(), d, manager.Outcome{Result: res})
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause PID",
	Short: "Minimize the window of a process and suspend it",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		out, err := m.Pause(ctx, d)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), d, out)
	}),
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause PID",
	Short: "Resume a process and restore its window",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		out, err := m.Unpause(ctx, d)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), d, out)
	}),
}

var minimizeCmd = &cobra.Command{
	Use:   "minimize PID",
	Short: "Minimize the main window of a process",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		shown, err := m.Windows.Minimize(ctx, d)
		if err != nil {
			return err
		}
		return printWindow(cmd.OutOrStdout(), d, process.WindowMinimize, shown)
	}),
}

var restoreCmd = &cobra.Command{
	Use:   "restore PID",
	Short: "Restore the main window of a process",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		shown, err := m.Windows.Restore(ctx, d)
		if err != nil {
			return err
		}
		return printWindow(cmd.OutOrStdout(), d, process.WindowRestore, shown)
	}),
}

var killCmd = &cobra.Command{
	Use:   "kill PID",
	Short: "Terminate a process",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		if err := m.Kill(ctx, d); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "terminated", d.String())
		return nil
	}),
}

var revealPrint bool

var revealCmd = &cobra.Command{
	Use:   "reveal PID",
	Short: "Show the executable of a process in the file manager",
	Args:  cobra.ExactArgs(1),
	RunE: withTarget(func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error {
		if d.PathDenied {
			return fmt.Errorf("executable path of %s: %w (run as administrator)", d, process.ErrAccessDenied)
		}
		if revealPrint {
			fmt.Fprintln(cmd.OutOrStdout(), d.ExecutablePath)
			return nil
		}
		return reveal.Open(ctx, d.ExecutablePath)
	}),
}

func init() {
	revealCmd.Flags().BoolVar(&revealPrint, "print", false, "print the path instead of opening the file manager")
}

type targetFunc func(ctx context.Context, cmd *cobra.Command, m *manager.Manager, d process.Descriptor) error

// withTarget resolves the PID argument against a fresh snapshot, so
// denylisted processes can never be targeted.
func withTarget(fn targetFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil || pid <= 0 {
			return fmt.Errorf("invalid pid %q", args[0])
		}

		m, err := newManager()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		d, err := m.Find(ctx, process.ProcessID(pid))
		if err != nil {
			return fmt.Errorf("%w (not running, denylisted or without a window; try --all)", err)
		}
		return fn(ctx, cmd, m, d)
	}
}
