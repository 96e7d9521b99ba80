package snapshot

import (
	"context"
	"fmt"

	"github.com/cinelist-cli/cinelist/catalog"
	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/spf13/viper"
)

// Builder fetches the catalog twice and keeps the publication date order
// once it is at least as complete as the title order.
type Builder struct {
	Source      catalog.Source
	MinDuration int
	// Attempts bounds how many publication date passes are tried.
	Attempts int
}

// NewBuilder returns a Builder configured from the catalog.* keys.
func NewBuilder(source catalog.Source) *Builder {
	return &Builder{
		Source:      source,
		MinDuration: viper.GetInt(key.CatalogMinDuration),
		Attempts:    viper.GetInt(key.CatalogCompletenessAttempts),
	}
}

// Build returns the current snapshot.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	reference, err := b.Pass(ctx, catalog.SortTitle)
	if err != nil {
		return nil, err
	}

	if len(reference) == 0 {
		return nil, ErrEmptyCatalog
	}

	attempts := b.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		sorted, err := b.Pass(ctx, catalog.SortPublicationDate)
		if err != nil {
			return nil, err
		}

		if len(sorted) >= len(reference) {
			log.With(log.Fields{"films": len(sorted), "attempt": attempt}).Info("catalog snapshot complete")
			return New(sorted), nil
		}

		log.With(log.Fields{
			"attempt":  attempt,
			"expected": len(reference),
			"got":      len(sorted),
		}).Warn("publication date pass is incomplete, fetching again")
	}

	return nil, fmt.Errorf("%w (%d attempts, expected %d films)", ErrIncomplete, attempts, len(reference))
}

// Pass fetches one sort order and returns its normalized, deduplicated films.
func (b *Builder) Pass(ctx context.Context, sort catalog.SortOrder) ([]film.Film, error) {
	raw, err := b.Source.Fetch(ctx, sort)
	if err != nil {
		return nil, err
	}

	minDuration := b.MinDuration
	if minDuration <= 0 {
		minDuration = film.DefaultMinDuration
	}

	films := make([]film.Film, 0, len(raw))
	for _, entry := range raw {
		if f, ok := film.Normalize(entry, minDuration); ok {
			films = append(films, f)
		}
	}

	unique := film.Dedup(films)
	log.Debugf("%s pass: %d products, %d films, %d unique", sort, len(raw), len(films), len(unique))
	return unique, nil
}
