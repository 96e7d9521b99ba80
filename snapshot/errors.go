package snapshot

import "errors"

var (
	// ErrIncomplete means the publication date pass never caught up with the title pass.
	ErrIncomplete = errors.New("catalog kept returning fewer films by publication date than by title")

	// ErrEmptyCatalog means the reference pass produced no film at all.
	ErrEmptyCatalog = errors.New("catalog returned no film")
)
