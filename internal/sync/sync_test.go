package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cinelist-cli/cinelist/catalog"
	"github.com/cinelist-cli/cinelist/credentials"
	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/geo"
	"github.com/cinelist-cli/cinelist/history"
	"github.com/cinelist-cli/cinelist/importer"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/cinelist-cli/cinelist/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

type staticSource []catalog.RawEntry

func (s staticSource) Fetch(context.Context, catalog.SortOrder) ([]catalog.RawEntry, error) {
	return s, nil
}

func products(ids ...int) staticSource {
	return lo.Map(ids, func(id int, _ int) catalog.RawEntry {
		return catalog.RawEntry{
			ID:             json.Number(fmt.Sprint(id)),
			Title:          fmt.Sprintf("Film %d", id),
			ProductType:    "PROGRAM",
			Duration:       lo.ToPtr(6000),
			ProductionYear: lo.ToPtr(2000),
		}
	})
}

// okSession accepts every step.
type okSession struct{ uploads *int }

func (s okSession) Authenticate(context.Context, string, string) error { return nil }
func (s okSession) OpenList(context.Context, string) error             { return nil }
func (s okSession) UploadPayload(context.Context, string) error {
	*s.uploads++
	return nil
}
func (s okSession) AwaitMatchResolution(context.Context, time.Duration) (remote.MatchResult, error) {
	return remote.MatchResult{}, nil
}
func (s okSession) SetReplaceMode(context.Context, bool) error                 { return nil }
func (s okSession) ConfirmMatches(context.Context) error                       { return nil }
func (s okSession) Save(context.Context) error                                 { return nil }
func (s okSession) AwaitSaveConfirmation(context.Context, time.Duration) error { return nil }
func (s okSession) Entries(context.Context) ([]remote.Entry, error)            { return nil, nil }
func (s okSession) MoveBefore(context.Context, string, string) error           { return nil }
func (s okSession) Close() error                                               { return nil }

func TestRun(t *testing.T) {
	Convey("Given a previous snapshot {1,2}", t, func() {
		st := store.New(afero.NewMemMapFs(), "/data/all_films.csv", "/data/temp_films_import.csv")
		So(st.Save(snapshot.New([]film.Film{
			{ID: 1, Title: "Film 1", Year: mo.Some(2000)},
			{ID: 2, Title: "Film 2", Year: mo.Some(2000)},
		})), ShouldBeNil)

		uploads := 0
		var recorded []*history.Run
		deps := Deps{
			Source: products(1, 2, 3),
			Store:  st,
			Opener: remote.OpenerFunc(func(context.Context) (remote.Session, error) {
				return okSession{uploads: &uploads}, nil
			}),
			Credentials: func() (credentials.Credentials, error) {
				return credentials.Credentials{Username: "u", Password: "p", List: "l"}, nil
			},
			Import: func(creds credentials.Credentials) importer.Options {
				return importer.Options{Credentials: creds}
			},
			Record: func(run *history.Run) error {
				recorded = append(recorded, run)
				return nil
			},
		}

		Convey("When a new film appears", func() {
			report, err := Run(context.Background(), deps, Options{})

			Convey("Then it is imported and journaled", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, history.OutcomeImported)
				So(report.Strategy, ShouldEqual, importer.StrategyIncrementalAdd)
				So(len(report.Added), ShouldEqual, 1)
				So(uploads, ShouldEqual, 1)
				So(len(recorded), ShouldEqual, 1)
				So(recorded[0].ID, ShouldEqual, report.ID)
				So(ExitCode(report.Outcome), ShouldEqual, 0)

				snap, _ := st.Load()
				So(snap.Len(), ShouldEqual, 3)
			})
		})

		Convey("When progress is followed", func() {
			var steps []string
			deps.Progress = func(step string) { steps = append(steps, step) }
			_, err := Run(context.Background(), deps, Options{})

			Convey("Then the catalog and remote steps are announced in order", func() {
				So(err, ShouldBeNil)
				So(steps[0], ShouldEqual, "fetching the catalog")
				So(steps, ShouldContain, "waiting for Letterboxd to match the films")
				So(steps[len(steps)-1], ShouldEqual, "saving the list")
			})
		})

		Convey("When running dry", func() {
			deps.Credentials = func() (credentials.Credentials, error) {
				return credentials.Credentials{}, credentials.ErrMissing
			}
			report, err := Run(context.Background(), deps, Options{DryRun: true})

			Convey("Then nothing is uploaded nor saved", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, history.OutcomeDryRun)
				So(report.Strategy, ShouldEqual, importer.StrategyIncrementalAdd)
				So(uploads, ShouldEqual, 0)

				snap, _ := st.Load()
				So(snap.Len(), ShouldEqual, 2)
			})
		})

		Convey("When credentials are missing", func() {
			deps.Credentials = func() (credentials.Credentials, error) {
				return credentials.Credentials{}, credentials.ErrMissing
			}
			report, err := Run(context.Background(), deps, Options{})

			So(errors.Is(err, credentials.ErrMissing), ShouldBeTrue)
			So(report.Outcome, ShouldEqual, history.OutcomeFailed)
			So(ExitCode(report.Outcome), ShouldEqual, 1)
		})

		Convey("When the gate refuses the country", func() {
			deps.Gate = func(context.Context) error { return geo.ErrWrongCountry }
			report, err := Run(context.Background(), deps, Options{})

			So(errors.Is(err, geo.ErrWrongCountry), ShouldBeTrue)
			So(ExitCode(report.Outcome), ShouldEqual, 3)
			So(uploads, ShouldEqual, 0)
		})

		Convey("When the catalog did not change", func() {
			deps.Source = products(1, 2)
			report, err := Run(context.Background(), deps, Options{})

			So(err, ShouldBeNil)
			So(report.Outcome, ShouldEqual, history.OutcomeNoChange)
			So(uploads, ShouldEqual, 0)
		})
	})
}
