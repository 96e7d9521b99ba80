package network

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/cinelist-cli/cinelist/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestCatalog(t *testing.T) {
	Convey("Catalog client selection", t, func() {
		Convey("Uses the shared client by default", func() {
			viper.Set(key.NetworkTLSFingerprint, false)
			So(Catalog(), ShouldEqual, Client)
		})

		Convey("Switches to the fingerprinted transport when enabled", func() {
			viper.Set(key.NetworkTLSFingerprint, true)
			defer viper.Set(key.NetworkTLSFingerprint, false)

			c := Catalog()
			So(c, ShouldNotEqual, Client)
			So(c.Transport, ShouldEqual, fingerprinted)
		})
	})
}

func TestIsConnectionError(t *testing.T) {
	Convey("Connection failures are told apart from other errors", t, func() {
		refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		So(IsConnectionError(refused), ShouldBeTrue)
		So(IsConnectionError(fmt.Errorf("page 0: %w", refused)), ShouldBeTrue)
		So(IsConnectionError(&net.DNSError{Name: "example.invalid", IsNotFound: true}), ShouldBeTrue)
		So(IsConnectionError(errors.New("unexpected status 500")), ShouldBeFalse)
		So(IsConnectionError(nil), ShouldBeFalse)
	})
}
