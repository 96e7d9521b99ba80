package where

import (
	"path/filepath"
	"testing"

	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Data()", func() {
			path := Data()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Snapshot and payload live side by side", func() {
			So(filepath.Dir(Snapshot()), ShouldEqual, filepath.Dir(Payload()))
			So(Snapshot(), ShouldNotEqual, Payload())
		})

		Convey("The data directory can be overridden", func() {
			t.Setenv(EnvDataPath, "/tmp/cinelist-test-data")
			So(Data(), ShouldEqual, "/tmp/cinelist-test-data")
			So(Snapshot(), ShouldEqual, "/tmp/cinelist-test-data/all_films.csv")
		})
	})
}
