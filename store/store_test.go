package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []film.Film {
	return []film.Film{
		{ID: 1, Title: "Amélie", Directors: "Jeunet", Year: mo.Some(2001)},
		{ID: 2, Title: "Un, deux, trois", Directors: "", Year: mo.None[int]()},
	}
}

func TestStore(t *testing.T) {
	Convey("Given a store on an empty filesystem", t, func() {
		fs := afero.NewMemMapFs()
		s := New(fs, "/data/all_films.csv", "/data/temp_films_import.csv")

		Convey("Loading before any save yields an empty snapshot", func() {
			snap, err := s.Load()
			So(err, ShouldBeNil)
			So(snap.Len(), ShouldEqual, 0)
		})

		Convey("When a snapshot is saved", func() {
			So(s.Save(snapshot.New(sample())), ShouldBeNil)

			Convey("Then it loads back unchanged", func() {
				snap, err := s.Load()
				So(err, ShouldBeNil)
				So(snap.Films, ShouldResemble, sample())
			})

			Convey("And the file has the ID column", func() {
				b, _ := afero.ReadFile(fs, "/data/all_films.csv")
				So(strings.HasPrefix(string(b), "ID,Title,Directors,Year\n"), ShouldBeTrue)
				So(string(b), ShouldContainSubstring, "2,\"Un, deux, trois\",,\n")
			})
		})

		Convey("When films are staged", func() {
			path, err := s.Stage(sample())
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/data/temp_films_import.csv")
			So(s.Staged(), ShouldBeTrue)

			Convey("Then the payload has no ID column", func() {
				b, _ := afero.ReadFile(fs, path)
				So(string(b), ShouldStartWith, "Title,Directors,Year\nAmélie,Jeunet,2001\n")
			})

			Convey("And unstaging removes it, twice without error", func() {
				So(s.Unstage(), ShouldBeNil)
				So(s.Staged(), ShouldBeFalse)
				So(s.Unstage(), ShouldBeNil)
			})
		})
	})
}

func TestDecode(t *testing.T) {
	Convey("Legacy float years are read", t, func() {
		films, err := Decode(strings.NewReader("ID,Title,Directors,Year\n7,Film,X,1999.0\n"))
		So(err, ShouldBeNil)
		So(films[0].Year, ShouldResemble, mo.Some(1999))
	})

	Convey("Missing columns are rejected", t, func() {
		_, err := Decode(strings.NewReader("ID,Name\n1,x\n"))
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})

	Convey("A bad id is rejected", t, func() {
		_, err := Decode(strings.NewReader("ID,Title,Directors,Year\nabc,Film,,\n"))
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})

	Convey("An empty file is an empty list", t, func() {
		films, err := Decode(bytes.NewReader(nil))
		So(err, ShouldBeNil)
		So(films, ShouldBeEmpty)
	})
}
