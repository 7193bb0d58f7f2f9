//go:build linux

package process_linux

import (
	"testing"

	"gpause/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statLine(pid, comm, state string, start string) string {
	return pid + " (" + comm + ") " + state + " 1 " + pid + " " + pid + " 0 -1 4194560 100 0 0 0 5 3 0 0 20 0 1 0 " + start + " 1000 200 18446744073709551615\n"
}

func TestParseStat(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		comm  string
		state procState
		start uint64
	}{
		{"plain", statLine("42", "bash", "S", "98765"), "bash", stateSleeping, 98765},
		{"spaces", statLine("43", "Web Content", "R", "5"), "Web Content", stateRunning, 5},
		{"parens", statLine("44", "a) (b", "T", "77"), "a) (b", stateStopped, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := parseStat([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.comm, st.comm)
			assert.Equal(t, tt.state, st.state)
			assert.Equal(t, tt.start, st.startTime)
		})
	}
}

func TestParseStat_Invalid(t *testing.T) {
	for _, line := range []string{"", "42 bash S 1", "42 (bash) S 1 2 3"} {
		_, err := parseStat([]byte(line))
		assert.Error(t, err, line)
	}
}

func TestThreadState(t *testing.T) {
	tests := []struct {
		state     procState
		suspended bool
	}{
		{stateRunning, false},
		{stateSleeping, false},
		{stateWaiting, false},
		{stateIdle, false},
		{stateZombie, false},
		{stateTracingStp, false},
		{stateStopped, true},
		{procState("?"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			ts, reason := tt.state.threadState()
			info := process.ThreadInfo{State: ts, WaitReason: reason}
			assert.Equal(t, tt.suspended, info.IsSuspended())
		})
	}
}
