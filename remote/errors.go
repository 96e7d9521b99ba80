package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the remote service.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindUpload
	KindMatchTimeout
	KindSave
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindUpload:
		return "upload"
	case KindMatchTimeout:
		return "match timeout"
	case KindSave:
		return "save"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrAuth         = &Error{Kind: KindAuth}
	ErrUpload       = &Error{Kind: KindUpload}
	ErrMatchTimeout = &Error{Kind: KindMatchTimeout}
	ErrSave         = &Error{Kind: KindSave}
)

// Error is a failure the remote service surfaced during a step.
type Error struct {
	Kind Kind
	Step string
	Err  error
}

// Errorf returns an Error of kind k.
func Errorf(k Kind, step string, format string, args ...any) *Error {
	return &Error{Kind: k, Step: step, Err: fmt.Errorf(format, args...)}
}

// Wrap returns an Error of kind k around err, or nil when err is nil.
func Wrap(k Kind, step string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Step: step, Err: err}
}

func (e *Error) Error() string {
	msg := "remote " + e.Kind.String() + " error"
	if e.Step != "" {
		msg += " during " + e.Step
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsRemote reports whether err is, or wraps, an Error.
func IsRemote(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
