// Package film holds the canonical record a catalog product is reduced to.
package film

import (
	"fmt"
	"strconv"

	"github.com/samber/mo"
)

// Film is a catalog program the list should contain.
type Film struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Directors string         `json:"directors"`
	Year      mo.Option[int] `json:"year"`
}

// Key identifies a film across catalog ids.
// Two products with the same key are the same film listed twice.
type Key struct {
	Title     string
	Directors string
	Year      int
	HasYear   bool
}

func (f Film) Key() Key {
	year, ok := f.Year.Get()
	return Key{Title: f.Title, Directors: f.Directors, Year: year, HasYear: ok}
}

// YearString returns the year or an empty string when unknown.
func (f Film) YearString() string {
	if year, ok := f.Year.Get(); ok {
		return strconv.Itoa(year)
	}
	return ""
}

func (f Film) String() string {
	if year, ok := f.Year.Get(); ok {
		return fmt.Sprintf("%s (%d)", f.Title, year)
	}
	return f.Title
}
