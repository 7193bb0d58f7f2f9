//go:build windows

package main

import (
	"gpause/config"
	"gpause/process"
	"gpause/process_windows"
)

func newSystem(_ *config.Config) (process.System, error) {
	return process_windows.New(), nil
}
