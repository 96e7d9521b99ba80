package snapshot

import "github.com/cinelist-cli/cinelist/film"

// Diff is what changed between two snapshots, by id.
type Diff struct {
	Added   []film.Film
	Removed []film.Film
}

// Empty reports whether nothing was added or removed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Compare returns the films of next missing from prev and the films of prev missing from next.
// Both results keep the order of the snapshot they come from.
func Compare(prev, next *Snapshot) Diff {
	prevIDs, nextIDs := prev.IDs(), next.IDs()

	var diff Diff
	if next != nil {
		for _, f := range next.Films {
			if _, ok := prevIDs[f.ID]; !ok {
				diff.Added = append(diff.Added, f)
			}
		}
	}
	if prev != nil {
		for _, f := range prev.Films {
			if _, ok := nextIDs[f.ID]; !ok {
				diff.Removed = append(diff.Removed, f)
			}
		}
	}
	return diff
}
