//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"gpause/config"
	"gpause/process"
)

func newSystem(_ *config.Config) (process.System, error) {
	return nil, fmt.Errorf("%s: %w", runtime.GOOS, process.ErrNotSupported)
}
