package process

import "sort"

// defaultNames are the core OS and self-referential processes that must never
// be suspended. Matching is case-sensitive, so the usual casings of each name
// are listed.
var defaultNames = []string{
	"gpause", "GPause",
	"TextInputHost", "ApplicationFrameHost", "perfmon",
	"system", "System",
	"winlogon", "Winlogon",
	"services", "Services",
	"smss", "Smss",
	"lsass", "LSass",
	"svchost", "Svchost",
	"spoolsv", "Spoolsv",
	"csrss", "Csrss",
	"explorer", "Explorer",
	"taskhost", "Taskhost",
	"dwm", "Dwm",
	"wininit", "Wininit",
}

// DefaultDenylist returns the built-in denylist. Every call builds a new
// value, so callers cannot change the default seen by others.
func DefaultDenylist() Denylist {
	return NewDenylist(defaultNames...)
}

// Denylist is an immutable set of process names excluded from inspection.
// The zero value denies nothing.
type Denylist struct {
	names map[string]struct{}
}

// NewDenylist builds a Denylist from names. Names are matched exactly; a
// caller that wants case-insensitive matching must normalize both sides.
func NewDenylist(names ...string) Denylist {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return Denylist{names: set}
}

// Contains reports whether name is denied.
func (d Denylist) Contains(name string) bool {
	_, ok := d.names[name]
	return ok
}

// With returns a new Denylist holding the names of d plus extra.
func (d Denylist) With(extra ...string) Denylist {
	return NewDenylist(append(d.Names(), extra...)...)
}

// Len returns the number of denied names.
func (d Denylist) Len() int {
	return len(d.names)
}

// Names returns the denied names, sorted.
func (d Denylist) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
