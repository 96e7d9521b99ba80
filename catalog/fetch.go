package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/network"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// Source yields every raw entry of the catalog for one sort order.
type Source interface {
	Fetch(ctx context.Context, sort SortOrder) ([]RawEntry, error)
}

// Options configures a Client.
type Options struct {
	URL               string
	Category          string
	PageSize          int
	MaxPages          int
	Timeout           time.Duration
	RequestsPerSecond int
	HTTPClient        *http.Client
}

// OptionsFromConfig reads the catalog.* keys.
func OptionsFromConfig() Options {
	return Options{
		URL:               viper.GetString(key.CatalogURL),
		Category:          viper.GetString(key.CatalogCategory),
		PageSize:          viper.GetInt(key.CatalogPageSize),
		MaxPages:          viper.GetInt(key.CatalogMaxPages),
		Timeout:           time.Duration(viper.GetInt(key.CatalogTimeoutSeconds)) * time.Second,
		RequestsPerSecond: viper.GetInt(key.CatalogRequestsPerSecond),
		HTTPClient:        network.Catalog(),
	}
}

// Client is the HTTP implementation of Source.
type Client struct {
	opts    Options
	limiter *rate.Limiter
}

// NewClient returns a Client, filling unset options with safe values.
func NewClient(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = constant.CatalogSearchURL
	}
	if opts.Category == "" {
		opts.Category = constant.CinemaCategory
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 1000
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 200
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = network.Client
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSecond)), 1)
	}

	return &Client{opts: opts, limiter: limiter}
}

// Fetch requests pages 0, 1, 2, ... and concatenates them until the source
// answers with a non-success status or an empty page. A connection failure on
// the very first request is retried once; any later transport failure aborts
// the pass so the catalog is never silently truncated.
func (c *Client) Fetch(ctx context.Context, sort SortOrder) ([]RawEntry, error) {
	var entries []RawEntry

	for page := 0; ; page++ {
		if page >= c.opts.MaxPages {
			return nil, fmt.Errorf("%w (%d pages, sort %s)", ErrTooManyPages, c.opts.MaxPages, sort)
		}

		products, ok, err := c.page(ctx, sort, page)
		if err != nil && page == 0 && network.IsConnectionError(err) {
			log.Warnf("catalog unreachable, retrying once: %v", err)
			products, ok, err = c.page(ctx, sort, page)
		}
		if err != nil {
			return nil, &TransportError{Page: page, Err: err}
		}

		if !ok || len(products) == 0 {
			log.With(log.Fields{"sort": sort, "pages": page, "entries": len(entries)}).Info("catalog exhausted")
			return entries, nil
		}

		entries = append(entries, products...)
	}
}

// page returns ok=false when the source signals there are no more pages.
func (c *Client) page(ctx context.Context, sort SortOrder, number int) ([]RawEntry, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(searchRequest{
		WithAggregations:               true,
		IncludedProductCategoriesUuids: []string{c.opts.Category},
		SortType:                       sort,
		PageNumber:                     number,
		PageSize:                       c.opts.PageSize,
	})
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	log.Debugf("requesting catalog page %d (%s)", number, sort)
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Debugf("catalog page %d answered %d", number, resp.StatusCode)
		return nil, false, nil
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decode page %d: %w", number, err)
	}

	return decoded.Content.Products.Content, true, nil
}

