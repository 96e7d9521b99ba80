// Package remote describes the list editing service films are imported into.
package remote

import (
	"context"
	"time"
)

// MatchResult summarizes how the service matched an uploaded file.
type MatchResult struct {
	Matched   int
	Unmatched []string
}

// Entry is one film of the remote list, in list order.
type Entry struct {
	// ID identifies the entry for MoveBefore.
	ID    string
	Title string
	Year  string
}

// Session is one stateful editing session of a remote list.
// Operations must be called in the order of the import workflow:
// Authenticate, OpenList, UploadPayload, AwaitMatchResolution,
// SetReplaceMode, ConfirmMatches, Save, AwaitSaveConfirmation.
type Session interface {
	Authenticate(ctx context.Context, username, password string) error
	OpenList(ctx context.Context, list string) error
	UploadPayload(ctx context.Context, path string) error
	AwaitMatchResolution(ctx context.Context, timeout time.Duration) (MatchResult, error)
	SetReplaceMode(ctx context.Context, replace bool) error
	ConfirmMatches(ctx context.Context) error
	Save(ctx context.Context) error
	AwaitSaveConfirmation(ctx context.Context, timeout time.Duration) error

	// Entries lists the films currently in the open list editor.
	Entries(ctx context.Context) ([]Entry, error)
	// MoveBefore places the entry with id right before the entry with target.
	MoveBefore(ctx context.Context, id, target string) error

	Close() error
}

// Opener starts a new session. Each import attempt uses its own session.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Session, error)

func (f OpenerFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}
