package credentials

import (
	"errors"
	"testing"

	"github.com/cinelist-cli/cinelist/key"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		keyring.MockInit()
		viper.Reset()

		Convey("When nothing is configured", func() {
			_, err := Resolve()

			Convey("Then every missing key is reported", func() {
				So(errors.Is(err, ErrMissing), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, key.LetterboxdUsername)
				So(err.Error(), ShouldContainSubstring, key.LetterboxdList)
			})
		})

		Convey("When everything is in the configuration", func() {
			viper.Set(key.LetterboxdUsername, "cinephile")
			viper.Set(key.LetterboxdPassword, "secret")
			viper.Set(key.LetterboxdList, "mediatheque")

			c, err := Resolve()
			So(err, ShouldBeNil)
			So(c, ShouldResemble, Credentials{Username: "cinephile", Password: "secret", List: "mediatheque"})
		})

		Convey("When the password only lives in the keyring", func() {
			viper.Set(key.LetterboxdUsername, "cinephile")
			viper.Set(key.LetterboxdList, "mediatheque")
			So(SetPassword("cinephile", "from-keyring"), ShouldBeNil)

			c, err := Resolve()
			So(err, ShouldBeNil)
			So(c.Password, ShouldEqual, "from-keyring")

			Convey("Then deleting it brings the error back", func() {
				So(DeletePassword("cinephile"), ShouldBeNil)
				So(HasPassword("cinephile"), ShouldBeFalse)
				_, err := Resolve()
				So(errors.Is(err, ErrMissing), ShouldBeTrue)
				So(DeletePassword("cinephile"), ShouldBeNil)
			})
		})

		Reset(viper.Reset)
	})
}
