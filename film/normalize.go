package film

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cinelist-cli/cinelist/catalog"
	"github.com/cinelist-cli/cinelist/constant"
	"github.com/samber/mo"
)

// DefaultMinDuration is the shortest runtime, in seconds, still counted as a feature.
const DefaultMinDuration = 3000

var (
	// "Title" de Director (1999) and "Title" d'Director (1999)
	titleDirectorYear = regexp.MustCompile(`"(.*?)" d(?:'|e )(.*?) \((\d*)\)`)
	// "Title" de
	titleOnly = regexp.MustCompile(`"(.*?)" de `)

	seasonMarker  = regexp.MustCompile(`[sS]aison \d`)
	versionSuffix = regexp.MustCompile(`-*\(*\s*(?:V|v)ersion (?:restaurée|longue|cinéma)\)*`)
)

// Normalize turns a raw product into a Film.
// The second value is false when the product is not a feature film:
// series, packs, shorts and leftover seasons are all rejected.
func Normalize(raw catalog.RawEntry, minDuration int) (Film, bool) {
	if raw.ProductType != constant.ProductTypeProgram {
		return Film{}, false
	}

	if raw.SeasonsCount != 0 {
		return Film{}, false
	}

	if raw.Duration == nil || *raw.Duration <= minDuration {
		return Film{}, false
	}

	id, err := strconv.Atoi(raw.ID.String())
	if err != nil {
		return Film{}, false
	}

	title, directors, year := decompose(raw)

	if seasonMarker.MatchString(title) {
		return Film{}, false
	}

	title = versionSuffix.ReplaceAllString(title, "")
	title = strings.TrimSpace(strings.ReplaceAll(title, "' ", "'"))
	if title == "" {
		return Film{}, false
	}

	return Film{
		ID:        id,
		Title:     title,
		Directors: directors,
		Year:      year,
	}, true
}

// decompose resolves title, directors and year.
// Structured metadata wins; otherwise they are parsed out of the title.
func decompose(raw catalog.RawEntry) (string, string, mo.Option[int]) {
	if raw.ProductionYear != nil {
		return raw.Title, strings.Join(raw.Directors, ","), mo.Some(*raw.ProductionYear)
	}

	if m := titleDirectorYear.FindStringSubmatch(raw.Title); m != nil {
		year := mo.None[int]()
		if y, err := strconv.Atoi(m[3]); err == nil {
			year = mo.Some(y)
		}
		return m[1], m[2], year
	}

	if m := titleOnly.FindStringSubmatch(raw.Title); m != nil {
		return m[1], "", mo.None[int]()
	}

	return raw.Title, "", mo.None[int]()
}
