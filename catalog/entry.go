// Package catalog pages through the Médiathèque numérique product search API.
package catalog

import (
	"encoding/json"
	"strings"
)

// SortOrder is a sortType accepted by the product search endpoint.
type SortOrder string

const (
	// SortTitle is the exhaustive, stable order used as the completeness reference.
	SortTitle SortOrder = "TITLE"
	// SortPublicationDate lists the most recently published programs first.
	SortPublicationDate SortOrder = "PUBLICATION_DATE"
)

// ParseSortOrder accepts "title", "date" and the raw API names.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TITLE":
		return SortTitle, true
	case "DATE", "PUBLICATION_DATE":
		return SortPublicationDate, true
	default:
		return "", false
	}
}

// RawEntry is a product exactly as the catalog delivers it.
type RawEntry struct {
	ID             json.Number `json:"id"`
	Title          string      `json:"title"`
	Directors      []string    `json:"directors"`
	ProductionYear *int        `json:"productionYear"`
	ProductType    string      `json:"productType"`
	SeasonsCount   int         `json:"seasonsCount"`
	Duration       *int        `json:"duration"`
}

// searchRequest is the JSON body of a product search.
type searchRequest struct {
	WithAggregations               bool      `json:"withAggregations"`
	IncludedProductCategoriesUuids []string  `json:"includedProductCategoriesUuids"`
	SortType                       SortOrder `json:"sortType"`
	PageNumber                     int       `json:"pageNumber"`
	PageSize                       int       `json:"pageSize"`
}

type searchResponse struct {
	Content struct {
		Products struct {
			Content []RawEntry `json:"content"`
		} `json:"products"`
	} `json:"content"`
}
