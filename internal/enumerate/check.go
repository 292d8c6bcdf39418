package enumerate

import (
	"errors"
	"io/fs"
	"slices"
)

// Drift describes how the manifest on disk differs from the tree.
type Drift struct {
	ManifestPath string
	Missing      bool     // manifest file does not exist
	Added        []string // in the tree, not in the manifest
	Removed      []string // in the manifest, not in the tree
	Reordered    bool     // same entries, different order
}

// Stale reports whether the manifest needs regenerating.
func (d *Drift) Stale() bool {
	return d.Missing || len(d.Added) > 0 || len(d.Removed) > 0 || d.Reordered
}

// Check enumerates opts.Root without writing and compares the result with
// the manifest currently on disk.
func Check(opts Options) (*Drift, error) {
	current, err := Collect(opts)
	if err != nil {
		return nil, err
	}

	path := opts.ManifestPath()
	drift := &Drift{ManifestPath: path}

	recorded, err := ReadManifest(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		drift.Missing = true
	}

	drift.Added, drift.Removed = Compare(recorded, current)
	if len(drift.Added) == 0 && len(drift.Removed) == 0 && !drift.Missing {
		drift.Reordered = !slices.Equal(recorded, current)
	}
	return drift, nil
}

// Compare returns the entries present only in next (added) and only in prev
// (removed). Both results are sorted.
func Compare(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]bool, len(prev))
	for _, e := range prev {
		inPrev[e] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, e := range next {
		inNext[e] = true
		if !inPrev[e] {
			added = append(added, e)
		}
	}
	for _, e := range prev {
		if !inNext[e] {
			removed = append(removed, e)
		}
	}
	slices.Sort(added)
	slices.Sort(removed)
	return slices.Compact(added), slices.Compact(removed)
}
