//go:build linux

package process_linux

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gpause/process"
)

// procState is the one-letter state from /proc/<pid>/stat
type procState string

const (
	stateRunning    procState = "R" // Running
	stateSleeping   procState = "S" // Sleeping in an interruptible wait
	stateWaiting    procState = "D" // Waiting in uninterruptible disk sleep
	stateZombie     procState = "Z" // Zombie
	stateStopped    procState = "T" // Stopped (on a signal)
	stateTracingStp procState = "t" // Tracing stop
	stateDead       procState = "X" // Dead
	stateIdle       procState = "I" // Idle kernel thread
	stateParked     procState = "P" // Parked
)

// threadState maps a procfs state onto the scheduler state and wait reason.
// Only a signal stop counts as suspended; a tracing stop does not.
func (s procState) threadState() (process.ThreadState, process.WaitReason) {
	switch s {
	case stateRunning:
		return process.ThreadRunning, 0
	case stateSleeping:
		return process.ThreadWaiting, process.WaitUserRequest
	case stateWaiting:
		return process.ThreadWaiting, process.WaitExecutive
	case stateIdle, stateParked:
		return process.ThreadWaiting, process.WaitDelay
	case stateStopped:
		return process.ThreadWaiting, process.WaitSuspended
	case stateTracingStp:
		return process.ThreadWaiting, process.WaitReasonOther
	case stateZombie, stateDead:
		return process.ThreadTerminated, 0
	}
	return process.ThreadUnknown, 0
}

// procStat holds the fields of a stat file this package uses
type procStat struct {
	comm      string
	state     procState
	startTime uint64 // clock ticks since boot
}

func readStat(path string) (procStat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return procStat{}, err
	}
	st, err := parseStat(bytes.TrimRight(data, "\n"))
	if err != nil {
		return procStat{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return st, nil
}

// parseStat parses a /proc/<pid>/stat or /proc/<pid>/task/<tid>/stat line.
// comm may contain spaces and parentheses, so it is cut at the last ')'.
func parseStat(data []byte) (procStat, error) {
	open := bytes.IndexByte(data, '(')
	end := bytes.LastIndexByte(data, ')')
	if open < 0 || end < open {
		return procStat{}, fmt.Errorf("invalid stat file format")
	}

	st := procStat{comm: string(data[open+1 : end])}

	// fields after comm start at field 3 (state)
	fields := strings.Fields(string(data[end+1:]))
	if len(fields) < 20 {
		return procStat{}, fmt.Errorf("invalid stat file format: %d fields", len(fields))
	}

	st.state = procState(fields[0])

	// starttime is field 22
	if start, err := strconv.ParseUint(fields[19], 10, 64); err == nil {
		st.startTime = start
	}
	return st, nil
}
