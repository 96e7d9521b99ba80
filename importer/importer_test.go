package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/cinelist-cli/cinelist/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	snapshotPath = "/data/all_films.csv"
	payloadPath  = "/data/temp_films_import.csv"
)

func films(ids ...int) []film.Film {
	return lo.Map(ids, func(id int, _ int) film.Film {
		return film.Film{ID: id, Title: fmt.Sprintf("Film %d", id), Year: mo.Some(2000 + id)}
	})
}

func ids(fs []film.Film) []int {
	return lo.Map(fs, func(f film.Film, _ int) int { return f.ID })
}

func persisted(s *store.Store) []int {
	snap := lo.Must(s.Load())
	return ids(snap.Films)
}

func TestDecide(t *testing.T) {
	Convey("Strategy selection", t, func() {
		Convey("Removals force a full replace even with additions", func() {
			s, err := Decide(snapshot.Diff{Added: films(4), Removed: films(1)}, 100, false)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, StrategyFullReplace)
		})

		Convey("Additions alone are appended", func() {
			s, err := Decide(snapshot.Diff{Added: films(4)}, 100, false)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, StrategyIncrementalAdd)
		})

		Convey("No change is a no-op", func() {
			s, err := Decide(snapshot.Diff{}, 100, false)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, StrategyNone)
		})

		Convey("Too many removals abort before anything else", func() {
			removed := films(lo.RangeFrom(1, 101)...)
			_, err := Decide(snapshot.Diff{Removed: removed}, 100, true)
			So(errors.Is(err, ErrSuspiciousDeletion), ShouldBeTrue)
		})

		Convey("A forced full replace applies without changes", func() {
			s, err := Decide(snapshot.Diff{}, 100, true)
			So(err, ShouldBeNil)
			So(s, ShouldEqual, StrategyFullReplace)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a persisted snapshot {1,2,3}", t, func() {
		fs := afero.NewMemMapFs()
		st := store.New(fs, snapshotPath, payloadPath)
		prev := snapshot.New(films(1, 2, 3))
		So(st.Save(prev), ShouldBeNil)

		run := func(opener *fakeOpener, next *snapshot.Snapshot, opts Options) (Result, error) {
			diff := snapshot.Compare(prev, next)
			return New(opener, st, opts).Run(context.Background(), prev, next, diff)
		}

		Convey("When nothing changed", func() {
			opener := &fakeOpener{}
			res, err := run(opener, snapshot.New(films(1, 2, 3)), Options{})

			Convey("Then the remote service is not contacted", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, StrategyNone)
				So(opener.opened, ShouldEqual, 0)
				So(st.Staged(), ShouldBeFalse)
			})
		})

		Convey("When films were only added", func() {
			session := &fakeSession{}
			opener := &fakeOpener{sessions: []*fakeSession{session}}
			next := snapshot.New(films(4, 1, 2, 3))
			res, err := run(opener, next, Options{})

			Convey("Then they are appended and the new snapshot committed", func() {
				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, StrategyIncrementalAdd)
				So(res.State, ShouldEqual, StateApplied)
				So(res.Trace, ShouldResemble, []State{StateStart, StateStaged, StateApplying, StateApplied})
				So(session.replace, ShouldBeFalse)
				So(session.closed, ShouldBeTrue)
				So(persisted(st), ShouldResemble, []int{4, 1, 2, 3})
				So(st.Staged(), ShouldBeFalse)
			})
		})

		Convey("When two films were added, one matched, and an anchor is set", func() {
			session := &fakeSession{
				entries: []remote.Entry{
					{ID: "anchor", Title: "Anchor"},
					{ID: "old2", Title: "Film 2"},
					{ID: "old3", Title: "Film 3"},
				},
				confirmed: []remote.Entry{{ID: "new4", Title: "Film 4"}},
			}
			next := snapshot.New(films(1, 2, 3, 4, 5))
			_, err := run(&fakeOpener{sessions: []*fakeSession{session}}, next, Options{Anchor: "anchor"})

			Convey("Then only the film the list gained moves before the anchor", func() {
				So(err, ShouldBeNil)
				order := lo.Map(session.entries, func(e remote.Entry, _ int) string { return e.ID })
				So(order, ShouldResemble, []string{"new4", "anchor", "old2", "old3"})
			})
		})

		Convey("When the list cannot be read before the upload", func() {
			session := &fakeSession{
				entries:   []remote.Entry{{ID: "anchor"}, {ID: "old2"}},
				confirmed: []remote.Entry{{ID: "new4"}},
				failAt:    map[string]error{"entries": errors.New("editor not loaded")},
			}
			_, err := run(&fakeOpener{sessions: []*fakeSession{session}}, snapshot.New(films(1, 2, 3, 4)), Options{Anchor: "anchor"})

			Convey("Then the import succeeds and nothing is moved", func() {
				So(err, ShouldBeNil)
				order := lo.Map(session.entries, func(e remote.Entry, _ int) string { return e.ID })
				So(order, ShouldResemble, []string{"anchor", "old2", "new4"})
			})
		})

		Convey("When films were removed and added", func() {
			next := snapshot.New(films(2, 3, 4))

			Convey("And the import succeeds", func() {
				session := &fakeSession{}
				res, err := run(&fakeOpener{sessions: []*fakeSession{session}}, next, Options{})

				So(err, ShouldBeNil)
				So(res.Strategy, ShouldEqual, StrategyFullReplace)
				So(session.replace, ShouldBeTrue)
				So(persisted(st), ShouldResemble, []int{2, 3, 4})
			})

			Convey("And saving fails with fallback disabled", func() {
				session := &fakeSession{failAt: map[string]error{"save": remote.Wrap(remote.KindSave, "save", errors.New("500"))}}
				res, err := run(&fakeOpener{sessions: []*fakeSession{session}}, next, Options{})

				Convey("Then the previous snapshot is restored and the payload removed", func() {
					So(errors.Is(err, ErrRolledBack), ShouldBeTrue)
					So(errors.Is(err, remote.ErrSave), ShouldBeTrue)
					So(res.State, ShouldEqual, StateRolledBack)
					So(res.Trace, ShouldContain, StateFailedFull)
					So(persisted(st), ShouldResemble, []int{1, 2, 3})
					So(st.Staged(), ShouldBeFalse)
				})
			})

			Convey("And saving fails with fallback enabled", func() {
				failing := &fakeSession{failAt: map[string]error{"save": remote.Wrap(remote.KindSave, "save", errors.New("500"))}}

				Convey("And the incremental retry succeeds", func() {
					retry := &fakeSession{}
					res, err := run(&fakeOpener{sessions: []*fakeSession{failing, retry}}, next, Options{Fallback: true})

					Convey("Then only the additions are committed", func() {
						So(err, ShouldBeNil)
						So(res.Fallback, ShouldBeTrue)
						So(res.State, ShouldEqual, StateApplied)
						So(retry.replace, ShouldBeFalse)
						So(persisted(st), ShouldResemble, []int{1, 2, 3, 4})
					})
				})

				Convey("And the incremental retry fails too", func() {
					retry := &fakeSession{failAt: map[string]error{"upload": remote.Wrap(remote.KindUpload, "upload", errors.New("gone"))}}
					res, err := run(&fakeOpener{sessions: []*fakeSession{failing, retry}}, next, Options{Fallback: true})

					Convey("Then the run rolls back", func() {
						So(errors.Is(err, ErrRolledBack), ShouldBeTrue)
						So(errors.Is(err, remote.ErrUpload), ShouldBeTrue)
						So(res.State, ShouldEqual, StateRolledBack)
						So(persisted(st), ShouldResemble, []int{1, 2, 3})
						So(st.Staged(), ShouldBeFalse)
					})
				})
			})

			Convey("And the browser cannot start", func() {
				opener := &fakeOpener{err: errors.New("no chrome")}
				res, err := run(opener, next, Options{Fallback: true})

				Convey("Then there is no fallback, only a rollback", func() {
					So(errors.Is(err, ErrRolledBack), ShouldBeTrue)
					So(res.Fallback, ShouldBeFalse)
					So(persisted(st), ShouldResemble, []int{1, 2, 3})
				})
			})
		})

		Convey("When an incremental import fails", func() {
			session := &fakeSession{failAt: map[string]error{"match": remote.Wrap(remote.KindMatchTimeout, "match", errors.New("2h"))}}
			res, err := run(&fakeOpener{sessions: []*fakeSession{session}}, snapshot.New(films(1, 2, 3, 4)), Options{Fallback: true})

			Convey("Then it rolls back from the partial failure", func() {
				So(errors.Is(err, remote.ErrMatchTimeout), ShouldBeTrue)
				So(res.Trace, ShouldResemble, []State{StateStart, StateStaged, StateApplying, StateFailedPartial, StateRolledBack})
				So(persisted(st), ShouldResemble, []int{1, 2, 3})
			})
		})
	})

	Convey("Given 101 removed films and nothing added", t, func() {
		fs := afero.NewMemMapFs()
		st := store.New(fs, snapshotPath, payloadPath)
		prev := snapshot.New(films(lo.RangeFrom(1, 102)...))
		So(st.Save(prev), ShouldBeNil)
		next := snapshot.New(films(101))
		opener := &fakeOpener{}

		res, err := New(opener, st, Options{}).Run(context.Background(), prev, next, snapshot.Compare(prev, next))

		Convey("Then the run aborts without touching anything", func() {
			So(errors.Is(err, ErrSuspiciousDeletion), ShouldBeTrue)
			So(res.Committed, ShouldBeNil)
			So(opener.opened, ShouldEqual, 0)
			So(st.Staged(), ShouldBeFalse)
			So(len(persisted(st)), ShouldEqual, 102)
		})
	})
}

func TestReorder(t *testing.T) {
	Convey("Given a list where three films appeared after the anchor", t, func() {
		before := []remote.Entry{
			{ID: "a", Title: "Top"},
			{ID: "anchor", Title: "Anchor"},
			{ID: "b", Title: "Old"},
			{ID: "c", Title: "Older"},
		}
		session := &fakeSession{entries: []remote.Entry{
			{ID: "a", Title: "Top"},
			{ID: "anchor", Title: "Anchor"},
			{ID: "b", Title: "Old"},
			{ID: "n1", Title: "New 1"},
			{ID: "c", Title: "Older"},
			{ID: "n2", Title: "New 2"},
			{ID: "n3", Title: "New 3"},
		}}
		order := func() []string {
			return lo.Map(session.entries, func(e remote.Entry, _ int) string { return e.ID })
		}

		Convey("When reordering", func() {
			So(Reorder(context.Background(), session, "anchor", before), ShouldBeNil)

			Convey("Then only the new films sit before the anchor, in their original order", func() {
				So(order(), ShouldResemble, []string{"a", "n1", "n2", "n3", "anchor", "b", "c"})
			})
		})

		Convey("The anchor can be named by title", func() {
			So(Reorder(context.Background(), session, "ANCHOR", before), ShouldBeNil)
			So(session.calls, ShouldContain, "move n3 anchor")
		})

		Convey("An unknown anchor is an error", func() {
			So(Reorder(context.Background(), session, "missing", before), ShouldNotBeNil)
		})

		Convey("Nothing moves when the list did not grow", func() {
			session.entries = before
			So(Reorder(context.Background(), session, "anchor", before), ShouldBeNil)
			So(order(), ShouldResemble, []string{"a", "anchor", "b", "c"})
		})
	})
}
