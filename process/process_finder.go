package process

import (
	"context"
	"sort"
)

// FindByName returns the running processes named name (exact, case-sensitive
// match), lowest pid first.
func FindByName(ctx context.Context, sys System, name string) ([]ProcessEntry, error) {
	entries, err := sys.Processes(ctx)
	if err != nil {
		return nil, err
	}

	var out []ProcessEntry
	for _, e := range entries {
		if e.Name == name {
			out = append(out, e)
		}
	}

	// pick the lowest PID first for determinism
	sort.Slice(out, func(i, j int) bool {
		return out[i].PID < out[j].PID
	})
	return out, nil
}

// Names returns the distinct names of the given processes, sorted.
func Names(entries []ProcessEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}
