//go:build linux

package process_linux

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"gpause/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThread struct {
	tid   string
	state string
}

// fakeProc writes a minimal /proc/<pid> tree under root.
func fakeProc(t *testing.T, root, pid, comm, exe, start string, threads ...fakeThread) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "task"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(statLine(pid, comm, "S", start)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0o644))
	if exe != "" {
		require.NoError(t, os.Symlink(exe, filepath.Join(dir, "exe")))
	}
	for _, th := range threads {
		tdir := filepath.Join(dir, "task", th.tid)
		require.NoError(t, os.MkdirAll(tdir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(tdir, "stat"), []byte(statLine(th.tid, comm, th.state, start)), 0o644))
	}
}

func newFakeRoot(t *testing.T) (string, *LinuxSystem) {
	root := t.TempDir()
	fakeProc(t, root, "100", "editor", "/usr/bin/editor", "500",
		fakeThread{"100", "S"}, fakeThread{"101", "R"})
	fakeProc(t, root, "200", "frozen", "/opt/frozen", "600",
		fakeThread{"200", "T"}, fakeThread{"201", "T"})
	fakeProc(t, root, "2", "kthreadd", "", "1", fakeThread{"2", "S"})
	return root, New(WithRoot(root))
}

func TestProcesses(t *testing.T) {
	_, sys := newFakeRoot(t)

	entries, err := sys.Processes(context.Background())
	require.NoError(t, err)
	sort.Slice(entries, func(i, j int) bool { return entries[i].PID < entries[j].PID })

	require.Len(t, entries, 3)
	assert.Equal(t, "kthreadd", entries[0].Name)
	assert.Equal(t, "editor", entries[1].Name)
	assert.Equal(t, uint64(500), entries[1].StartTime)
	assert.Len(t, entries[1].Threads, 2)
	assert.False(t, entries[1].HasSuspended())
	assert.True(t, entries[2].HasSuspended())
}

func TestProcess_Gone(t *testing.T) {
	_, sys := newFakeRoot(t)

	_, err := sys.Process(context.Background(), 999)
	assert.ErrorIs(t, err, process.ErrStaleReference)
}

func TestExecutablePath(t *testing.T) {
	_, sys := newFakeRoot(t)
	ctx := context.Background()

	path, err := sys.ExecutablePath(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/editor", path)

	path, err = sys.ExecutablePath(ctx, 2)
	require.NoError(t, err, "kernel threads have no executable")
	assert.Empty(t, path)

	_, err = sys.ExecutablePath(ctx, 999)
	assert.ErrorIs(t, err, process.ErrStaleReference)
}

func TestProcess_ExitedBetweenScans(t *testing.T) {
	root, sys := newFakeRoot(t)
	ctx := context.Background()

	_, err := sys.Process(ctx, 200)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "200")))
	_, err = sys.Process(ctx, 200)
	assert.ErrorIs(t, err, process.ErrStaleReference)
}

func TestWindowsNotSupported(t *testing.T) {
	_, sys := newFakeRoot(t)

	_, err := sys.MainWindows(context.Background())
	assert.ErrorIs(t, err, process.ErrNotSupported)
	assert.ErrorIs(t, sys.ShowWindow(1, process.WindowMinimize), process.ErrNotSupported)
}

func TestOpenThread_Gone(t *testing.T) {
	_, sys := newFakeRoot(t)

	_, err := sys.OpenThread(999, 999)
	assert.ErrorIs(t, err, process.ErrStaleReference)
}

func TestOpenThread_CloseIsIdempotent(t *testing.T) {
	_, sys := newFakeRoot(t)

	h, err := sys.OpenThread(100, 101)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(os.ErrNotExist), process.ErrStaleReference)
	assert.ErrorIs(t, classify(os.ErrPermission), process.ErrAccessDenied)
}

func TestProcesses_UnreadableIsKept(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root reads through file modes")
	}
	root, sys := newFakeRoot(t)
	stat := filepath.Join(root, "100", "stat")
	require.NoError(t, os.Chmod(stat, 0))
	t.Cleanup(func() { _ = os.Chmod(stat, 0o644) })

	_, err := sys.Process(context.Background(), 100)
	require.ErrorIs(t, err, process.ErrAccessDenied)

	entries, err := sys.Processes(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var denied *process.ProcessEntry
	for i := range entries {
		if entries[i].PID == 100 {
			denied = &entries[i]
		}
	}
	require.NotNil(t, denied)
	assert.True(t, denied.AccessDenied)
	assert.Equal(t, "editor", denied.Name)
	assert.Empty(t, denied.Threads)
}

func TestProcesses_SkipsExited(t *testing.T) {
	root, sys := newFakeRoot(t)
	// listed but gone before its stat is read
	require.NoError(t, os.MkdirAll(filepath.Join(root, "300"), 0o755))

	entries, err := sys.Processes(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
