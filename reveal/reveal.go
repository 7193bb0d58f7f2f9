// Package reveal shows an executable in the desktop file manager.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// ErrNoPath is returned when there is no executable path to show.
var ErrNoPath = errors.New("no executable path")

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "reveal"))

// Command builds the file manager invocation for goos. Windows and macOS
// select the file itself; everywhere else the containing folder is opened.
func Command(ctx context.Context, goos, path string) (*exec.Cmd, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	switch goos {
	case "windows":
		return exec.CommandContext(ctx, "explorer.exe", "/select,"+path), nil
	case "darwin":
		return exec.CommandContext(ctx, "open", "-R", path), nil
	}
	return exec.CommandContext(ctx, "xdg-open", filepath.Dir(path)), nil
}

// Open starts the file manager on path and does not wait for it.
func Open(ctx context.Context, path string) error {
	cmd, err := Command(ctx, runtime.GOOS, path)
	if err != nil {
		return err
	}
	log.Infoln("Revealing", path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	// the file manager outlives us; reap it if it exits first
	go func() { _ = cmd.Wait() }()
	return nil
}
