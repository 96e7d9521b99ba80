package importer

import (
	"context"
	"errors"
	"time"

	"github.com/cinelist-cli/cinelist/remote"
)

// fakeSession records the workflow calls and fails where told to.
type fakeSession struct {
	calls   []string
	failAt  map[string]error
	replace bool
	entries []remote.Entry
	// confirmed is appended to entries when the matches are confirmed.
	confirmed []remote.Entry
	closed    bool
}

func (f *fakeSession) step(name string) error {
	f.calls = append(f.calls, name)
	return f.failAt[name]
}

func (f *fakeSession) Authenticate(_ context.Context, _, _ string) error {
	return f.step("authenticate")
}

func (f *fakeSession) OpenList(_ context.Context, _ string) error {
	return f.step("open")
}

func (f *fakeSession) UploadPayload(_ context.Context, _ string) error {
	return f.step("upload")
}

func (f *fakeSession) AwaitMatchResolution(_ context.Context, _ time.Duration) (remote.MatchResult, error) {
	return remote.MatchResult{Matched: 1}, f.step("match")
}

func (f *fakeSession) SetReplaceMode(_ context.Context, replace bool) error {
	f.replace = replace
	return f.step("replace")
}

func (f *fakeSession) ConfirmMatches(_ context.Context) error {
	if err := f.step("confirm"); err != nil {
		return err
	}
	f.entries = append(f.entries, f.confirmed...)
	return nil
}

func (f *fakeSession) Save(_ context.Context) error {
	return f.step("save")
}

func (f *fakeSession) AwaitSaveConfirmation(_ context.Context, _ time.Duration) error {
	return f.step("saved")
}

func (f *fakeSession) Entries(_ context.Context) ([]remote.Entry, error) {
	return append([]remote.Entry(nil), f.entries...), f.step("entries")
}

func (f *fakeSession) MoveBefore(_ context.Context, id, target string) error {
	if err := f.step("move " + id + " " + target); err != nil {
		return err
	}
	var item remote.Entry
	rest := f.entries[:0:0]
	for _, e := range f.entries {
		if e.ID == id {
			item = e
			continue
		}
		rest = append(rest, e)
	}
	moved := make([]remote.Entry, 0, len(f.entries))
	for _, e := range rest {
		if e.ID == target {
			moved = append(moved, item)
		}
		moved = append(moved, e)
	}
	f.entries = moved
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// fakeOpener hands out one prepared session per attempt.
type fakeOpener struct {
	sessions []*fakeSession
	opened   int
	err      error
}

func (f *fakeOpener) Open(_ context.Context) (remote.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.opened >= len(f.sessions) {
		return nil, errors.New("no more sessions")
	}
	s := f.sessions[f.opened]
	f.opened++
	return s, nil
}
