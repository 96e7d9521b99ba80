package catalog

import (
	"errors"
	"fmt"
)

// TransportError reports a network-level failure while requesting a page.
type TransportError struct {
	Page int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog page %d: %v", e.Page, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrTooManyPages is returned when a pass hits the configured page cap.
var ErrTooManyPages = errors.New("catalog kept returning pages past the configured limit")
