// Package query looks films up in the persisted snapshot and remembers past searches.
package query

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/cinelist-cli/cinelist/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

// Path is the file remembered queries are stored in.
func Path() string {
	return filepath.Join(where.Cache(), "queries.json")
}

var cacher = gache.New[map[string]*queryRecord](
	&gache.Options{
		Path:       Path(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Find returns the films whose title or directors fuzzily contain q,
// closest titles first. A non-positive limit returns every match.
func Find(films []film.Film, q string, limit int) []film.Film {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	matches := lo.Filter(films, func(f film.Film, _ int) bool {
		return fuzzy.MatchNormalizedFold(q, f.Title) || fuzzy.MatchNormalizedFold(q, f.Directors)
	})

	distance := func(f film.Film) int {
		return levenshtein.Distance(q, strings.ToLower(f.Title))
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return distance(matches[i]) < distance(matches[j])
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Remember records a search query or increments its rank.
func Remember(q string, weight int) error {
	q = sanitize(q)
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	if record, ok := cached[q]; ok {
		record.Rank += weight
	} else {
		cached[q] = &queryRecord{Rank: weight, Query: q}
	}

	return cacher.Set(cached)
}

// Suggest returns the most popular past query matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns past queries matching q, most popular first.
func SuggestMany(q string) []string {
	q = sanitize(q)

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	var records []*queryRecord
	for _, record := range cached {
		if fuzzy.Match(q, record.Query) {
			records = append(records, record)
		}
	}

	slices.SortFunc(records, func(a, b *queryRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
