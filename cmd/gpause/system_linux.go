//go:build linux

package main

import (
	"gpause/config"
	"gpause/process"
	"gpause/process_linux"
)

func newSystem(cfg *config.Config) (process.System, error) {
	return process_linux.New(process_linux.WithRoot(cfg.Procfs.Root)), nil
}
