package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSpinnerModel(t *testing.T) {
	Convey("Given a spinner without a step", t, func() {
		m := newSpinnerModel()
		So(m.View(), ShouldBeEmpty)

		Convey("When a step arrives it is shown next to the spinner", func() {
			updated, _ := m.Update(stepMsg("waiting for Letterboxd to match the films"))
			So(updated.View(), ShouldContainSubstring, "waiting for Letterboxd to match the films")

			Convey("And it is cleared and quits once done", func() {
				final, cmd := updated.Update(doneMsg{})
				So(final.View(), ShouldBeEmpty)
				So(cmd, ShouldNotBeNil)
			})
		})
	})
}
