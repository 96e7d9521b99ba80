package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestError(t *testing.T) {
	Convey("Given a save error", t, func() {
		err := Wrap(KindSave, "save", context.DeadlineExceeded)

		Convey("It matches its kind only", func() {
			So(errors.Is(err, ErrSave), ShouldBeTrue)
			So(errors.Is(err, ErrUpload), ShouldBeFalse)
		})

		Convey("It keeps the cause", func() {
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "remote save error during save: context deadline exceeded")
		})

		Convey("It is still recognized once wrapped", func() {
			So(IsRemote(fmt.Errorf("import: %w", err)), ShouldBeTrue)
			So(IsRemote(errors.New("plain")), ShouldBeFalse)
		})
	})

	Convey("Wrapping nil yields nil", t, func() {
		So(Wrap(KindAuth, "sign in", nil), ShouldBeNil)
	})
}
