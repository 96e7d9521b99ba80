// Package network provides the HTTP clients shared by the catalog and geolocation lookups.
package network

import (
	"net/http"
	"time"

	"github.com/cinelist-cli/cinelist/key"
	"github.com/spf13/viper"
)

// Client is the singleton HTTP client shared across the application.
// Callers bound each request with a context deadline.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 10
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.TLSHandshakeTimeout = 10 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// Catalog returns the client used against the catalog API, presenting a
// browser TLS fingerprint when network.tls_fingerprint is set.
func Catalog() *http.Client {
	if !viper.GetBool(key.NetworkTLSFingerprint) {
		return Client
	}

	return &http.Client{
		Timeout:   time.Minute,
		Transport: fingerprinted,
	}
}
