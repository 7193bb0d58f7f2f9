//go:build linux

package process_linux_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"gpause/process"
	"gpause/process_linux"
	"gpause/suspend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSleeper(t *testing.T) process.ProcessID {
	t.Helper()
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	cmd := exec.Command(path, "60")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return process.ProcessID(cmd.Process.Pid)
}

// stateIs polls the thread states of pid until they report want.
func stateIs(sys *process_linux.LinuxSystem, pid process.ProcessID, want bool) func() bool {
	return func() bool {
		e, err := sys.Process(context.Background(), pid)
		return err == nil && e.HasSuspended() == want
	}
}

func TestSuspendResume_RealProcess(t *testing.T) {
	pid := startSleeper(t)
	sys := process_linux.New()
	ctx := context.Background()

	entry, err := sys.Process(ctx, pid)
	require.NoError(t, err)
	require.False(t, entry.HasSuspended())
	d := process.Descriptor{PID: pid, Name: entry.Name, StartTime: entry.StartTime}

	eng := suspend.New(sys)

	res := eng.Suspend(ctx, d)
	require.NoError(t, res.Err())
	assert.False(t, res.Stale)
	assert.Equal(t, len(entry.Threads), res.Succeeded())
	assert.Eventually(t, stateIs(sys, pid, true), 2*time.Second, 10*time.Millisecond)

	res = eng.Resume(ctx, d)
	require.NoError(t, res.Err())
	assert.Eventually(t, stateIs(sys, pid, false), 2*time.Second, 10*time.Millisecond)
}

func TestTerminate_RealProcess(t *testing.T) {
	pid := startSleeper(t)
	sys := process_linux.New()

	require.NoError(t, sys.Terminate(pid))
}
