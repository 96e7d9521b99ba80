package util

import (
	"testing"

	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/spf13/afero"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMin(t *testing.T) {
	Convey("Min", t, func() {
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a file and a directory on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(afero.WriteFile(fs, "/data/a.csv", []byte("x"), 0o644), ShouldBeNil)
		So(afero.WriteFile(fs, "/cache/q/b.json", []byte("y"), 0o644), ShouldBeNil)

		Convey("Delete should remove both", func() {
			So(Delete("/data/a.csv"), ShouldBeNil)
			So(Delete("/cache"), ShouldBeNil)

			exists, _ := afero.Exists(fs, "/data/a.csv")
			So(exists, ShouldBeFalse)
			exists, _ = afero.DirExists(fs, "/cache")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete should fail on a missing path", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}
