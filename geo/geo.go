// Package geo tells which country the catalog will see the requests coming from.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/network"
	"github.com/spf13/viper"
)

// ErrWrongCountry is returned when the run happens from outside the expected country.
var ErrWrongCountry = errors.New("catalog is not available from this country")

// Locator queries an ipinfo-compatible endpoint.
type Locator struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewLocator returns a Locator using geo.url.
func NewLocator() *Locator {
	url := viper.GetString(key.GeoURL)
	if url == "" {
		url = constant.GeolocationURL
	}
	return &Locator{URL: url, Client: network.Client, Timeout: 5 * time.Second}
}

// Country returns the ISO code of the current public address.
// A connection failure is retried once.
func (l *Locator) Country(ctx context.Context) (string, error) {
	country, err := l.country(ctx)
	if err != nil && network.IsConnectionError(err) {
		log.Warnf("geolocation unreachable, retrying once: %v", err)
		country, err = l.country(ctx)
	}
	return country, err
}

func (l *Locator) country(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geolocation answered %s", resp.Status)
	}

	var body struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if body.Country == "" {
		return "", errors.New("geolocation did not report a country")
	}

	return strings.ToUpper(body.Country), nil
}

// Check fails with ErrWrongCountry when the country is known and differs from expected.
// An unknown country only produces a warning.
func Check(ctx context.Context, locator *Locator, expected string) error {
	country, err := locator.Country(ctx)
	if err != nil {
		log.Warnf("could not determine country, continuing: %v", err)
		return nil
	}

	if !strings.EqualFold(country, expected) {
		return fmt.Errorf("%w: expected %s, got %s", ErrWrongCountry, strings.ToUpper(expected), country)
	}

	log.Infof("running from %s", country)
	return nil
}

