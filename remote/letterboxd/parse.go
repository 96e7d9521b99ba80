package letterboxd

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cinelist-cli/cinelist/remote"
)

// parseEntries reads the films of the list editor in display order.
func parseEntries(html string) ([]remote.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var entries []remote.Entry
	doc.Find("#list-items li.film-list-entry").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("data-film-id")
		if !ok || strings.TrimSpace(id) == "" {
			return
		}

		title, _ := s.Attr("data-film-name")
		if title == "" {
			title = normSpace(s.Find(".film-title, h2").First().Text())
		}
		if title == "" {
			title, _ = s.Find("img").First().Attr("alt")
		}

		year, _ := s.Attr("data-film-release-year")
		if year == "" {
			year = normSpace(s.Find("small.metadata, .film-year").First().Text())
		}

		entries = append(entries, remote.Entry{
			ID:    strings.TrimSpace(id),
			Title: strings.TrimSpace(title),
			Year:  year,
		})
	})

	return entries, nil
}

// parseMatch reads the import table once the service finished matching.
func parseMatch(html string) (remote.MatchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return remote.MatchResult{}, err
	}

	var result remote.MatchResult
	doc.Find(".import-table tbody tr").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("no-match") || s.HasClass("unmatched") {
			title := normSpace(s.Find(".import-film-title, td").First().Text())
			result.Unmatched = append(result.Unmatched, title)
			return
		}
		result.Matched++
	})

	return result, nil
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
