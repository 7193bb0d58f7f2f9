//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gpause/process"

	"golang.org/x/sys/unix"
)

// classify maps OS errors onto the process sentinel errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", process.ErrStaleReference, err)
	case errors.Is(err, unix.EPERM), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", process.ErrAccessDenied, err)
	}
	return err
}

// procExists reports whether path is still present. Errors other than
// not-exist leave the process assumed alive.
func procExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
