package history

import (
	"fmt"
	"time"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeImported     Outcome = "imported"
	OutcomeNoChange     Outcome = "no-change"
	OutcomeDryRun       Outcome = "dry-run"
	OutcomeRolledBack   Outcome = "rolled-back"
	OutcomeSuspicious   Outcome = "suspicious-deletions"
	OutcomeWrongCountry Outcome = "wrong-country"
	OutcomeFailed       Outcome = "failed"
)

// Run is one journal entry.
type Run struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Outcome  Outcome   `json:"outcome"`
	Strategy string    `json:"strategy,omitempty"`
	State    string    `json:"state,omitempty"`
	Added    int       `json:"added"`
	Removed  int       `json:"removed"`
	Fallback bool      `json:"fallback,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

func (r *Run) String() string {
	return fmt.Sprintf("%s %s +%d -%d", r.Started.Format(time.DateTime), r.Outcome, r.Added, r.Removed)
}
