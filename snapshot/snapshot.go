// Package snapshot assembles the full set of films the catalog offers at one point in time
// and compares it with the previous one.
package snapshot

import (
	"github.com/cinelist-cli/cinelist/film"
	"github.com/samber/lo"
)

// Snapshot is an ordered, deduplicated collection of films keyed by id.
type Snapshot struct {
	Films []film.Film
}

// New wraps films without copying them.
func New(films []film.Film) *Snapshot {
	return &Snapshot{Films: films}
}

// Len returns the number of films.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Films)
}

// IDs returns the set of film ids.
func (s *Snapshot) IDs() map[int]struct{} {
	ids := make(map[int]struct{}, s.Len())
	if s == nil {
		return ids
	}
	for _, f := range s.Films {
		ids[f.ID] = struct{}{}
	}
	return ids
}

// Contains reports whether a film with the given id is present.
func (s *Snapshot) Contains(id int) bool {
	if s == nil {
		return false
	}
	return lo.ContainsBy(s.Films, func(f film.Film) bool { return f.ID == id })
}

// Union returns s followed by every film of other not already in s.
func (s *Snapshot) Union(other []film.Film) *Snapshot {
	ids := s.IDs()
	merged := make([]film.Film, 0, s.Len()+len(other))
	if s != nil {
		merged = append(merged, s.Films...)
	}
	for _, f := range other {
		if _, ok := ids[f.ID]; ok {
			continue
		}
		ids[f.ID] = struct{}{}
		merged = append(merged, f)
	}
	return New(merged)
}
