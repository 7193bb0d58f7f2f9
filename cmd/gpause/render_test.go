package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"gpause/inspect"
	"gpause/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPrintSnapshot_ColumnsAlign(t *testing.T) {
	snap := inspect.Snapshot{
		Processes: []process.Descriptor{
			{PID: 7, Name: "Notepad", WindowTitle: "Untitled - Notepad", ExecutablePath: `C:\Windows\notepad.exe`},
			{PID: 12345, Name: "X", WindowTitle: "x", PathDenied: true, Suspended: true},
		},
		LackPermissions: true,
	}

	var buf bytes.Buffer
	require.NoError(t, printSnapshot(&buf, snap))

	lines := strings.Split(ansiEscape.ReplaceAllString(buf.String(), ""), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	header, first, second := lines[0], lines[1], lines[2]

	for _, col := range []struct {
		name         string
		first, other string
	}{
		{"NAME", "Notepad", "X"},
		{"TITLE", "Untitled - Notepad", "x"},
		{"PATH", `C:\Windows\notepad.exe`, "<access denied>"},
		{"STATE", "running", "suspended"},
	} {
		at := strings.Index(header, col.name)
		require.GreaterOrEqual(t, at, 0, col.name)
		assert.Equal(t, at, strings.Index(first, col.first), col.name)
		assert.Equal(t, at, strings.LastIndex(second, col.other), col.name)
	}

	assert.Contains(t, buf.String(), "run as administrator")
}
