package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gpause/inspect"
	"gpause/manager"
	"gpause/process"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	suspendedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

func stateLabel(suspended bool) string {
	if suspended {
		return suspendedStyle.Render("suspended")
	}
	return runningStyle.Render("running")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// snapshotTable lays the snapshot out as a borderless table. Cells hold plain
// text; styling is applied per cell so widths are measured without escapes.
func snapshotTable(snap inspect.Snapshot) *table.Table {
	const (
		colPath  = 3
		colState = 4
	)
	cell := lipgloss.NewStyle().PaddingRight(2)

	t := table.New().
		BorderTop(false).BorderBottom(false).
		BorderLeft(false).BorderRight(false).
		BorderHeader(false).BorderColumn(false).
		Headers("PID", "NAME", "TITLE", "PATH", "STATE")

	for _, d := range snap.Processes {
		path := d.ExecutablePath
		if d.PathDenied {
			path = "<access denied>"
		}
		state := "running"
		if d.Suspended {
			state = "suspended"
		}
		t.Row(strconv.Itoa(int(d.PID)), d.Name, d.WindowTitle, path, state)
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return cell.Inherit(headerStyle)
		case row < 0 || row >= len(snap.Processes):
			return cell
		case col == colPath && snap.Processes[row].PathDenied:
			return cell.Inherit(dimStyle)
		case col == colState && snap.Processes[row].Suspended:
			return cell.Inherit(suspendedStyle)
		case col == colState:
			return cell.Inherit(runningStyle)
		}
		return cell
	})
}

func printSnapshot(w io.Writer, snap inspect.Snapshot) error {
	if jsonOut {
		return writeJSON(w, snap)
	}

	fmt.Fprintln(w, snapshotTable(snap).Render())

	if snap.LackPermissions {
		fmt.Fprintln(w, warnStyle.Render("Some executable paths are hidden: run as administrator to see them."))
	}
	return nil
}

func printNames(w io.Writer, names []string) error {
	if jsonOut {
		return writeJSON(w, names)
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

type resultView struct {
	PID          process.ProcessID   `json:"pid"`
	Name         string              `json:"name"`
	Requested    string              `json:"requested"`
	Stale        bool                `json:"stale,omitempty"`
	Threads      int                 `json:"threads"`
	Succeeded    int                 `json:"succeeded"`
	AccessDenied bool                `json:"access_denied,omitempty"`
	Window       bool                `json:"window_command,omitempty"`
	After        *process.Descriptor `json:"after,omitempty"`
	Error        string              `json:"error,omitempty"`
}

func printResult(w io.Writer, d process.Descriptor, out manager.Outcome) error {
	res := out.Result
	view := resultView{
		PID:          d.PID,
		Name:         d.Name,
		Requested:    "resume",
		Stale:        res.Stale,
		Threads:      len(res.Threads),
		Succeeded:    res.Succeeded(),
		AccessDenied: res.AccessDenied(),
		Window:       out.Window,
	}
	if res.Suspended {
		view.Requested = "suspend"
	}
	if out.After.PID != 0 {
		after := out.After
		view.After = &after
	}
	if err := res.Err(); err != nil {
		view.Error = err.Error()
	}

	if jsonOut {
		return writeJSON(w, view)
	}

	if res.Stale {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s has exited, nothing to %s", d, view.Requested)))
		return nil
	}

	if res.Lookup != nil {
		msg := fmt.Sprintf("could not %s %s: %v", view.Requested, d, res.Lookup)
		if res.AccessDenied() {
			msg += " (run as administrator)"
		}
		fmt.Fprintln(w, warnStyle.Render(msg))
		return nil
	}

	fmt.Fprintf(w, "%s %s: %d/%d threads\n", view.Requested, d, view.Succeeded, view.Threads)
	if view.After != nil {
		fmt.Fprintln(w, "now", stateLabel(view.After.Suspended))
	}
	if res.AccessDenied() {
		fmt.Fprintln(w, warnStyle.Render("Some threads could not be opened: run as administrator."))
	} else if res.Partial() {
		fmt.Fprintln(w, warnStyle.Render("Some threads did not change state: "+view.Error))
	}
	return nil
}

func printWindow(w io.Writer, d process.Descriptor, mode process.WindowMode, shown bool) error {
	if jsonOut {
		return writeJSON(w, map[string]any{"pid": d.PID, "name": d.Name, "mode": mode.String(), "window_command": shown})
	}
	if !shown {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s has no window to %s", d, mode)))
		return nil
	}
	fmt.Fprintln(w, mode.String(), d.String())
	return nil
}
