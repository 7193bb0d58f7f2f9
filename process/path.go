package process

import (
	"path/filepath"
	"strings"
)

// BaseName returns the executable name of path without directory and
// extension: "C:\Windows\notepad.exe" becomes "notepad".
func BaseName(path string) string {
	// handle both separators regardless of the host OS
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
