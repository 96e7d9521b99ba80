// Package sync runs one synchronization of the catalog into the Letterboxd list.
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/cinelist-cli/cinelist/catalog"
	"github.com/cinelist-cli/cinelist/credentials"
	"github.com/cinelist-cli/cinelist/film"
	"github.com/cinelist-cli/cinelist/geo"
	"github.com/cinelist-cli/cinelist/history"
	"github.com/cinelist-cli/cinelist/importer"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/cinelist-cli/cinelist/remote/letterboxd"
	"github.com/cinelist-cli/cinelist/snapshot"
	"github.com/cinelist-cli/cinelist/store"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Options changes what a run is allowed to do.
type Options struct {
	// DryRun stops after the diff.
	DryRun bool
	// Full replaces the whole list even when nothing was removed.
	Full bool
}

// Deps are the collaborators of a run.
type Deps struct {
	// Gate aborts the run when it returns an error. Nil skips it.
	Gate        func(ctx context.Context) error
	Source      catalog.Source
	Store       *store.Store
	Opener      remote.Opener
	Credentials func() (credentials.Credentials, error)
	Import      func(creds credentials.Credentials) importer.Options
	// Record stores the journal entry. Nil skips it.
	Record func(run *history.Run) error
	// Progress receives a short description of each step. Nil ignores them.
	Progress func(step string)
}

// DefaultDeps wires the real collaborators from the configuration.
func DefaultDeps() Deps {
	deps := Deps{
		Source:      catalog.NewClient(catalog.OptionsFromConfig()),
		Store:       store.Default(),
		Opener:      letterboxd.NewOpener(letterboxd.OptionsFromConfig()),
		Credentials: credentials.Resolve,
		Import:      importer.OptionsFromConfig,
		Record:      history.Record,
	}

	if viper.GetBool(key.GeoEnable) {
		locator := geo.NewLocator()
		country := viper.GetString(key.GeoCountry)
		deps.Gate = func(ctx context.Context) error {
			return geo.Check(ctx, locator, country)
		}
	}

	if mirror := store.MirrorFromConfig(); mirror != nil {
		base := deps.Import
		deps.Import = func(creds credentials.Credentials) importer.Options {
			opts := base(creds)
			opts.OnCommit = mirror.Replace
			return opts
		}
	}

	return deps
}

// Report summarizes a run.
type Report struct {
	ID       string            `json:"id"`
	Outcome  history.Outcome   `json:"outcome"`
	Films    int               `json:"films"`
	Added    []film.Film       `json:"added"`
	Removed  []film.Film       `json:"removed"`
	Strategy importer.Strategy `json:"strategy"`
	State    importer.State    `json:"state,omitempty"`
	Fallback bool              `json:"fallback"`
	Error    string            `json:"error,omitempty"`
}

// Run executes one synchronization and records it in the journal.
// The returned error is nil only for imported, unchanged and dry runs.
func Run(ctx context.Context, deps Deps, opts Options) (report *Report, err error) {
	report = &Report{ID: uuid.NewString()}
	started := time.Now()
	logger := log.With(log.Fields{"run": report.ID})
	logger.Info("synchronization started")

	defer func() {
		report.Outcome = outcome(report, opts, err)
		if err != nil {
			report.Error = err.Error()
		}
		logger.WithField("outcome", report.Outcome).Info("synchronization finished")

		if deps.Record == nil {
			return
		}
		rerr := deps.Record(&history.Run{
			ID:       report.ID,
			Started:  started,
			Finished: time.Now(),
			Outcome:  report.Outcome,
			Strategy: report.Strategy.String(),
			State:    string(report.State),
			Added:    len(report.Added),
			Removed:  len(report.Removed),
			Fallback: report.Fallback,
			Error:    report.Error,
		})
		if rerr != nil {
			log.Warnf("could not record run: %v", rerr)
		}
	}()

	progress := func(step string) {
		if deps.Progress != nil {
			deps.Progress(step)
		}
	}

	if deps.Gate != nil {
		progress("checking the country the catalog sees")
		if err := deps.Gate(ctx); err != nil {
			return report, err
		}
	}

	var creds credentials.Credentials
	if !opts.DryRun {
		if creds, err = deps.Credentials(); err != nil {
			return report, err
		}
	}

	prev, err := deps.Store.Load()
	if err != nil {
		return report, err
	}
	if deps.Store.Staged() {
		logger.Warn("found a staged payload left by an interrupted run, it will be replaced")
	}

	progress("fetching the catalog")
	next, err := snapshot.NewBuilder(deps.Source).Build(ctx)
	if err != nil {
		return report, err
	}
	report.Films = next.Len()

	diff := snapshot.Compare(prev, next)
	report.Added, report.Removed = diff.Added, diff.Removed

	importOpts := deps.Import(creds)
	importOpts.ForceFull = opts.Full
	if importOpts.Progress == nil {
		importOpts.Progress = deps.Progress
	}

	if opts.DryRun {
		report.Strategy, err = importer.Decide(diff, maxRemoved(importOpts), opts.Full)
		return report, err
	}

	result, err := importer.New(deps.Opener, deps.Store, importOpts).Run(ctx, prev, next, diff)
	report.Strategy = result.Strategy
	report.State = result.State
	report.Fallback = result.Fallback
	return report, err
}

func maxRemoved(opts importer.Options) int {
	if opts.MaxRemoved <= 0 {
		return importer.DefaultMaxRemoved
	}
	return opts.MaxRemoved
}

func outcome(report *Report, opts Options, err error) history.Outcome {
	switch {
	case errors.Is(err, geo.ErrWrongCountry):
		return history.OutcomeWrongCountry
	case errors.Is(err, importer.ErrSuspiciousDeletion):
		return history.OutcomeSuspicious
	case errors.Is(err, importer.ErrRolledBack):
		return history.OutcomeRolledBack
	case err != nil:
		return history.OutcomeFailed
	case opts.DryRun:
		return history.OutcomeDryRun
	case report.Strategy == importer.StrategyNone:
		return history.OutcomeNoChange
	default:
		return history.OutcomeImported
	}
}

// ExitCode maps an outcome to the process exit status.
func ExitCode(o history.Outcome) int {
	switch o {
	case history.OutcomeImported, history.OutcomeNoChange, history.OutcomeDryRun:
		return 0
	case history.OutcomeSuspicious:
		return 2
	case history.OutcomeWrongCountry:
		return 3
	default:
		return 1
	}
}
