package process

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadInfo_IsSuspended(t *testing.T) {
	tests := []struct {
		name   string
		thread ThreadInfo
		want   bool
	}{
		{"waiting suspended", ThreadInfo{State: ThreadWaiting, WaitReason: WaitSuspended}, true},
		{"waiting wr-suspended", ThreadInfo{State: ThreadWaiting, WaitReason: WaitWrSuspended}, true},
		{"waiting on user request", ThreadInfo{State: ThreadWaiting, WaitReason: WaitUserRequest}, false},
		{"waiting on page in", ThreadInfo{State: ThreadWaiting, WaitReason: WaitPageIn}, false},
		{"running with stale reason", ThreadInfo{State: ThreadRunning, WaitReason: WaitSuspended}, false},
		{"ready", ThreadInfo{State: ThreadReady}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.thread.IsSuspended())
		})
	}
}

func TestProcessEntry_HasSuspended(t *testing.T) {
	io := ThreadInfo{ID: 1, State: ThreadWaiting, WaitReason: WaitExecutive}
	run := ThreadInfo{ID: 2, State: ThreadRunning}
	sus := ThreadInfo{ID: 3, State: ThreadWaiting, WaitReason: WaitSuspended}

	assert.False(t, ProcessEntry{}.HasSuspended(), "no threads")
	assert.False(t, ProcessEntry{Threads: []ThreadInfo{io, run}}.HasSuspended(), "other wait reasons do not count")
	assert.True(t, ProcessEntry{Threads: []ThreadInfo{io, run, sus}}.HasSuspended(), "one suspended thread is enough")
}

func TestDescriptor_Matches(t *testing.T) {
	d := Descriptor{PID: 10, Name: "Calc", StartTime: 500}

	assert.True(t, d.Matches(ProcessEntry{PID: 10, Name: "Calc", StartTime: 500}))
	assert.True(t, d.Matches(ProcessEntry{PID: 10, Name: "Calc"}), "unknown start time is not a mismatch")
	assert.False(t, d.Matches(ProcessEntry{PID: 10, Name: "Calc", StartTime: 501}), "pid reused")
	assert.False(t, d.Matches(ProcessEntry{PID: 10, Name: "Notepad", StartTime: 500}))
	assert.False(t, d.Matches(ProcessEntry{PID: 11, Name: "Calc", StartTime: 500}))
}

func TestDenylist(t *testing.T) {
	d := NewDenylist("svchost", "Svchost", "")

	assert.Equal(t, 2, d.Len())
	assert.True(t, d.Contains("svchost"))
	assert.True(t, d.Contains("Svchost"))
	assert.False(t, d.Contains("SVCHOST"), "matching is case-sensitive")
	assert.False(t, d.Contains(""))

	more := d.With("dwm")
	assert.True(t, more.Contains("dwm"))
	assert.False(t, d.Contains("dwm"), "With must not modify the receiver")
	assert.Equal(t, []string{"Svchost", "dwm", "svchost"}, more.Names())

	var zero Denylist
	assert.False(t, zero.Contains("anything"))
}

func TestDefaultDenylist(t *testing.T) {
	d := DefaultDenylist()
	for _, name := range []string{"System", "explorer", "dwm", "csrss", "lsass", "winlogon", "gpause"} {
		assert.True(t, d.Contains(name), name)
	}
	assert.False(t, d.Contains("notepad"))

	extended := d.With("notepad")
	assert.True(t, extended.Contains("notepad"))
	assert.False(t, DefaultDenylist().Contains("notepad"), "extending a copy leaves the default alone")
	assert.Equal(t, d.Names(), DefaultDenylist().Names())
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "notepad", BaseName(`C:\Windows\System32\notepad.exe`))
	assert.Equal(t, "Calc", BaseName("Calc.exe"))
	assert.Equal(t, "my.app", BaseName("/opt/my.app.exe"))
	assert.Equal(t, "sshd", BaseName("/usr/sbin/sshd"))
	assert.Equal(t, "", BaseName(""))
}

func TestIsSoft(t *testing.T) {
	assert.True(t, IsSoft(fmt.Errorf("open: %w", ErrAccessDenied)))
	assert.True(t, IsSoft(fmt.Errorf("thread 4: %w", ErrStaleReference)))
	assert.True(t, IsSoft(ErrNoWindow))
	assert.False(t, IsSoft(errors.New("boom")))
	assert.False(t, IsSoft(nil))
}

type listSystem struct {
	System
	entries []ProcessEntry
}

func (s listSystem) Processes(context.Context) ([]ProcessEntry, error) {
	return s.entries, nil
}

func TestFindByName(t *testing.T) {
	sys := listSystem{entries: []ProcessEntry{
		{PID: 30, Name: "Calc"},
		{PID: 7, Name: "Notepad"},
		{PID: 12, Name: "Calc"},
		{PID: 40, Name: "calc"},
	}}

	got, err := FindByName(context.Background(), sys, "Calc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ProcessID(12), got[0].PID, "lowest pid first")
	assert.Equal(t, ProcessID(30), got[1].PID)

	none, err := FindByName(context.Background(), sys, "Paint")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, []string{"Calc", "Notepad", "calc"}, Names(sys.entries))
}
