package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/samber/mo"
)

var (
	snapshotHeader = []string{"ID", "Title", "Directors", "Year"}
	payloadHeader  = []string{"Title", "Directors", "Year"}
)

// ErrMalformed is returned when a CSV file does not have the expected columns.
var ErrMalformed = errors.New("malformed film file")

// Encode writes films as CSV. The ID column is only written when withID is set,
// which is the snapshot layout; the Letterboxd importer expects it absent.
func Encode(w io.Writer, films []film.Film, withID bool) error {
	cw := csv.NewWriter(w)

	header := payloadHeader
	if withID {
		header = snapshotHeader
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range films {
		record := []string{f.Title, f.Directors, f.YearString()}
		if withID {
			record = append([]string{strconv.Itoa(f.ID)}, record...)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Decode reads films written by Encode. Columns are looked up by header name.
func Decode(r io.Reader) ([]film.Film, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range payloadHeader {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, required)
		}
	}
	idColumn, hasID := columns["ID"]

	var films []film.Film
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		f := film.Film{
			Title:     field("Title"),
			Directors: field("Directors"),
			Year:      mo.None[int](),
		}

		if hasID && idColumn < len(record) {
			if f.ID, err = strconv.Atoi(strings.TrimSpace(record[idColumn])); err != nil {
				return nil, fmt.Errorf("%w: line %d: bad id %q", ErrMalformed, line, record[idColumn])
			}
		}

		if year := strings.TrimSpace(field("Year")); year != "" {
			y, err := parseYear(year)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad year %q", ErrMalformed, line, year)
			}
			f.Year = mo.Some(y)
		}

		films = append(films, f)
	}

	return films, nil
}

// parseYear also accepts "1999.0", which older snapshots contain.
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	y, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(y), nil
}
