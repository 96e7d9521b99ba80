package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// catalogServer serves pages of products, then 404 once they run out.
func catalogServer(pages [][]RawEntry, seen *[]searchRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if seen != nil {
			*seen = append(*seen, req)
		}
		if req.PageNumber >= len(pages) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var resp searchResponse
		resp.Content.Products.Content = pages[req.PageNumber]
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func product(id int, title string) RawEntry {
	return RawEntry{ID: json.Number(fmt.Sprint(id)), Title: title, ProductType: "PROGRAM"}
}

// flakyTransport fails the first n round trips with the given error.
type flakyTransport struct {
	failures int
	err      error
	calls    int
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.next.RoundTrip(r)
}

func TestFetch(t *testing.T) {
	Convey("Given a catalog with two pages", t, func() {
		var seen []searchRequest
		srv := catalogServer([][]RawEntry{
			{product(1, "A"), product(2, "B")},
			{product(3, "C")},
		}, &seen)
		defer srv.Close()

		client := NewClient(Options{URL: srv.URL, Category: "cat", PageSize: 2, Timeout: time.Second})

		Convey("When fetching by title", func() {
			entries, err := client.Fetch(context.Background(), SortTitle)

			Convey("Then every page is concatenated in order", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[2].Title, ShouldEqual, "C")
			})

			Convey("And pages are requested from zero with the sort order", func() {
				So(len(seen), ShouldEqual, 3)
				for i, req := range seen {
					So(req.PageNumber, ShouldEqual, i)
					So(req.SortType, ShouldEqual, SortTitle)
					So(req.PageSize, ShouldEqual, 2)
					So(req.IncludedProductCategoriesUuids, ShouldResemble, []string{"cat"})
				}
			})
		})
	})

	Convey("Given a source that never stops", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var resp searchResponse
			resp.Content.Products.Content = []RawEntry{product(1, "Loop")}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		client := NewClient(Options{URL: srv.URL, MaxPages: 3, Timeout: time.Second})

		Convey("The page cap turns it into an error", func() {
			_, err := client.Fetch(context.Background(), SortTitle)
			So(errors.Is(err, ErrTooManyPages), ShouldBeTrue)
		})
	})

	Convey("Given the first connection attempt fails", t, func() {
		srv := catalogServer([][]RawEntry{{product(1, "A")}}, nil)
		defer srv.Close()

		dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

		Convey("A single failure is retried", func() {
			tr := &flakyTransport{failures: 1, err: dialErr, next: http.DefaultTransport}
			client := NewClient(Options{URL: srv.URL, Timeout: time.Second, HTTPClient: &http.Client{Transport: tr}})

			entries, err := client.Fetch(context.Background(), SortTitle)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
		})

		Convey("Two failures propagate as a transport error", func() {
			tr := &flakyTransport{failures: 2, err: dialErr, next: http.DefaultTransport}
			client := NewClient(Options{URL: srv.URL, Timeout: time.Second, HTTPClient: &http.Client{Transport: tr}})

			_, err := client.Fetch(context.Background(), SortTitle)
			var te *TransportError
			So(errors.As(err, &te), ShouldBeTrue)
			So(te.Page, ShouldEqual, 0)
		})
	})

	Convey("Given a failure in the middle of pagination", t, func() {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 2 {
				hj, _ := w.(http.Hijacker)
				conn, _, _ := hj.Hijack()
				_ = conn.Close()
				return
			}
			var resp searchResponse
			resp.Content.Products.Content = []RawEntry{product(calls, "X")}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		client := NewClient(Options{URL: srv.URL, Timeout: time.Second})

		Convey("The pass fails instead of returning a truncated catalog", func() {
			entries, err := client.Fetch(context.Background(), SortTitle)
			So(entries, ShouldBeNil)
			var te *TransportError
			So(errors.As(err, &te), ShouldBeTrue)
			So(te.Page, ShouldEqual, 1)
		})
	})
}

func TestParseSortOrder(t *testing.T) {
	Convey("ParseSortOrder", t, func() {
		s, ok := ParseSortOrder("date")
		So(ok, ShouldBeTrue)
		So(s, ShouldEqual, SortPublicationDate)

		s, ok = ParseSortOrder(" Title ")
		So(ok, ShouldBeTrue)
		So(s, ShouldEqual, SortTitle)

		_, ok = ParseSortOrder("rating")
		So(ok, ShouldBeFalse)
	})
}

func TestRawEntryDecoding(t *testing.T) {
	Convey("Identifiers are accepted as strings or numbers", t, func() {
		var entries []RawEntry
		err := json.Unmarshal([]byte(`[{"id":"42","productionYear":null},{"id":7,"productionYear":1999}]`), &entries)
		So(err, ShouldBeNil)
		So(entries[0].ID.String(), ShouldEqual, "42")
		So(entries[0].ProductionYear, ShouldBeNil)
		So(*entries[1].ProductionYear, ShouldEqual, 1999)
	})
}
