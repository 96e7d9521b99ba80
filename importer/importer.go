// Package importer applies a snapshot diff to the remote list.
//
// The persisted snapshot is only replaced once the remote service confirmed
// the list was saved. Any failure after staging rewrites the previous
// snapshot and removes the staged payload.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cinelist-cli/cinelist/credentials"
	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/spf13/viper"
)

// DefaultMaxRemoved is the largest number of removed films considered genuine.
const DefaultMaxRemoved = 100

// listedTitles is the largest change whose titles are logged one by one.
const listedTitles = 20

// Persistence is the local state the orchestrator commits to or rolls back.
type Persistence interface {
	Save(snap *snapshot.Snapshot) error
	Stage(films []film.Film) (string, error)
	Unstage() error
}

// Options tunes the orchestrator.
type Options struct {
	Credentials credentials.Credentials
	MaxRemoved  int
	// Fallback retries a failed full replace as an incremental add.
	Fallback bool
	// ForceFull selects a full replace whatever the diff.
	ForceFull bool
	// Anchor is the list entry new films are moved in front of. Empty disables reordering.
	Anchor       string
	MatchTimeout time.Duration
	SaveTimeout  time.Duration
	// Progress receives a short description of each remote step. Nil ignores them.
	Progress func(step string)
	// OnCommit runs after a snapshot was persisted. Its failure is only logged.
	OnCommit func(ctx context.Context, snap *snapshot.Snapshot) error
}

// OptionsFromConfig reads the import.* and letterboxd.* keys.
func OptionsFromConfig(creds credentials.Credentials) Options {
	return Options{
		Credentials:  creds,
		MaxRemoved:   viper.GetInt(key.ImportMaxRemoved),
		Fallback:     viper.GetBool(key.ImportFallback),
		Anchor:       viper.GetString(key.LetterboxdAnchor),
		MatchTimeout: time.Duration(viper.GetInt(key.LetterboxdMatchTimeoutMinutes)) * time.Minute,
		SaveTimeout:  time.Duration(viper.GetInt(key.LetterboxdStepTimeoutSeconds)) * time.Second,
	}
}

// Result describes how a run ended.
type Result struct {
	Strategy Strategy           `json:"strategy"`
	State    State              `json:"state"`
	Fallback bool               `json:"fallback"`
	Match    remote.MatchResult `json:"match"`
	Trace    []State            `json:"trace"`

	// Committed is the snapshot now persisted, nil if nothing was committed.
	Committed *snapshot.Snapshot `json:"-"`
}

// Orchestrator drives one import.
type Orchestrator struct {
	opener remote.Opener
	store  Persistence
	opts   Options

	result Result
}

// New returns an Orchestrator.
func New(opener remote.Opener, store Persistence, opts Options) *Orchestrator {
	if opts.MaxRemoved <= 0 {
		opts.MaxRemoved = DefaultMaxRemoved
	}
	if opts.MatchTimeout <= 0 {
		opts.MatchTimeout = 2 * time.Hour
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = time.Minute
	}
	return &Orchestrator{opener: opener, store: store, opts: opts}
}

// Decide picks the strategy for diff.
func (o *Orchestrator) Decide(diff snapshot.Diff) (Strategy, error) {
	return Decide(diff, o.opts.MaxRemoved, o.opts.ForceFull)
}

// Decide picks the strategy for diff. The deletion guard is checked first
// so a suspicious diff never reaches the remote service.
func Decide(diff snapshot.Diff, maxRemoved int, forceFull bool) (Strategy, error) {
	switch {
	case len(diff.Removed) > maxRemoved:
		return StrategyNone, fmt.Errorf("%w: %d removed, at most %d allowed", ErrSuspiciousDeletion, len(diff.Removed), maxRemoved)
	case forceFull, len(diff.Removed) > 0:
		return StrategyFullReplace, nil
	case len(diff.Added) == 0:
		return StrategyNone, nil
	default:
		return StrategyIncrementalAdd, nil
	}
}

// Run brings the remote list from prev to next.
// On success next, or prev plus the added films after a fallback, is persisted.
// On failure prev is rewritten and the returned error wraps ErrRolledBack.
func (o *Orchestrator) Run(ctx context.Context, prev, next *snapshot.Snapshot, diff snapshot.Diff) (Result, error) {
	o.result = Result{}
	o.enter(StateStart)

	strategy, err := o.Decide(diff)
	o.result.Strategy = strategy
	if err != nil {
		log.With(log.Fields{"removed": len(diff.Removed)}).Warn("suspicious deletion count, aborting")
		return o.result, err
	}

	announce(strategy, diff)

	if strategy == StrategyNone {
		log.Info("no new films, nothing to import")
		return o.result, nil
	}

	payload := diff.Added
	if strategy == StrategyFullReplace {
		payload = next.Films
	}

	err = o.attempt(ctx, strategy, payload)
	if err == nil {
		o.enter(StateApplied)
		return o.result, o.commit(ctx, next)
	}

	if strategy == StrategyIncrementalAdd {
		o.enter(StateFailedPartial)
		return o.result, o.rollback(prev, err)
	}

	o.enter(StateFailedFull)
	if !o.canFallBack(err, diff) {
		return o.result, o.rollback(prev, err)
	}

	log.Warnf("full replace failed, retrying with the %d added films only: %v", len(diff.Added), err)
	o.result.Fallback = true

	if ferr := o.attempt(ctx, StrategyIncrementalAdd, diff.Added); ferr != nil {
		return o.result, o.rollback(prev, errors.Join(err, ferr))
	}

	o.enter(StateApplied)
	// The removals were not applied, keep them for the next run.
	return o.result, o.commit(ctx, prev.Union(diff.Added))
}

// canFallBack allows the incremental retry only for failures the remote service reported.
func (o *Orchestrator) canFallBack(err error, diff snapshot.Diff) bool {
	switch {
	case !o.opts.Fallback:
		log.Debug("fallback disabled")
		return false
	case !remote.IsRemote(err):
		log.Debugf("no fallback for non remote failure: %v", err)
		return false
	case len(diff.Added) == 0:
		log.Debug("no added films to fall back to")
		return false
	default:
		return true
	}
}

// attempt stages payload and applies it in a fresh remote session.
func (o *Orchestrator) attempt(ctx context.Context, strategy Strategy, payload []film.Film) error {
	path, err := o.store.Stage(payload)
	if err != nil {
		return fmt.Errorf("stage payload: %w", err)
	}
	o.enter(StateStaged)

	o.enter(StateApplying)
	return o.apply(ctx, strategy, path)
}

func (o *Orchestrator) apply(ctx context.Context, strategy Strategy, path string) error {
	session, err := o.opener.Open(ctx)
	if err != nil {
		return fmt.Errorf("open remote session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warnf("closing remote session: %v", cerr)
		}
	}()

	creds := o.opts.Credentials
	o.progress("signing in to Letterboxd as %s", creds.Username)
	if err := session.Authenticate(ctx, creds.Username, creds.Password); err != nil {
		return err
	}
	if err := session.OpenList(ctx, creds.List); err != nil {
		return err
	}

	// The list before the upload tells the films Letterboxd really added apart.
	reorder := strategy == StrategyIncrementalAdd && o.opts.Anchor != ""
	var before []remote.Entry
	if reorder {
		var err error
		if before, err = session.Entries(ctx); err != nil {
			log.Warnf("new films keep their default position, could not read the list: %v", err)
			reorder = false
		}
	}

	o.progress("uploading the films to %s", creds.List)
	if err := session.UploadPayload(ctx, path); err != nil {
		return err
	}

	o.progress("waiting for Letterboxd to match the films")
	match, err := session.AwaitMatchResolution(ctx, o.opts.MatchTimeout)
	if err != nil {
		return err
	}
	o.result.Match = match
	log.With(log.Fields{"matched": match.Matched, "unmatched": len(match.Unmatched)}).Info("letterboxd matched the payload")
	if n := len(match.Unmatched); n > 0 && n <= listedTitles {
		log.Warnf("unmatched films: %s", strings.Join(match.Unmatched, "; "))
	}

	if err := session.SetReplaceMode(ctx, strategy == StrategyFullReplace); err != nil {
		return err
	}
	if err := session.ConfirmMatches(ctx); err != nil {
		return err
	}

	if reorder {
		if err := Reorder(ctx, session, o.opts.Anchor, before); err != nil {
			log.Warnf("new films keep their default position: %v", err)
		}
	}

	o.progress("saving the list")
	if err := session.Save(ctx); err != nil {
		return err
	}
	return session.AwaitSaveConfirmation(ctx, o.opts.SaveTimeout)
}

// commit persists snap and removes the payload.
func (o *Orchestrator) commit(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := o.store.Save(snap); err != nil {
		return fmt.Errorf("remote list updated but snapshot not saved: %w", err)
	}
	o.result.Committed = snap

	if err := o.store.Unstage(); err != nil {
		log.Warnf("could not remove staged payload: %v", err)
	}

	if o.opts.OnCommit != nil {
		if err := o.opts.OnCommit(ctx, snap); err != nil {
			log.Warnf("post commit hook: %v", err)
		}
	}

	log.With(log.Fields{"films": snap.Len(), "fallback": o.result.Fallback}).Info("list imported")
	return nil
}

// rollback rewrites prev and removes the payload.
func (o *Orchestrator) rollback(prev *snapshot.Snapshot, cause error) error {
	o.enter(StateRolledBack)
	log.Errorf("import failed, restoring previous snapshot: %v", cause)

	err := fmt.Errorf("%w: %w", ErrRolledBack, cause)
	if serr := o.store.Save(prev); serr != nil {
		err = errors.Join(err, fmt.Errorf("restore snapshot: %w", serr))
	}

	if uerr := o.store.Unstage(); uerr != nil {
		log.Warnf("staged payload left in place: %v", uerr)
	}

	return err
}

func (o *Orchestrator) progress(format string, args ...any) {
	if o.opts.Progress != nil {
		o.opts.Progress(fmt.Sprintf(format, args...))
	}
}

func (o *Orchestrator) enter(state State) {
	if n := len(o.result.Trace); n > 0 {
		log.Debugf("import state %s -> %s", o.result.Trace[n-1], state)
	}
	o.result.State = state
	o.result.Trace = append(o.result.Trace, state)
}

// announce logs the counts and, for small changes, the titles.
func announce(strategy Strategy, diff snapshot.Diff) {
	log.With(log.Fields{
		"added":    len(diff.Added),
		"removed":  len(diff.Removed),
		"strategy": strategy,
	}).Info("catalog changes")

	if n := len(diff.Added); n > 0 && n <= listedTitles {
		log.Infof("added: %s", strings.Join(film.Titles(diff.Added), "; "))
	}
	if n := len(diff.Removed); n > 0 && n <= listedTitles {
		log.Infof("removed: %s", strings.Join(film.Titles(diff.Removed), "; "))
	}
}
