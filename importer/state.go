package importer

// Strategy is how the remote list is brought up to date.
type Strategy int

const (
	// StrategyNone means there is nothing to import.
	StrategyNone Strategy = iota
	// StrategyFullReplace uploads the whole snapshot and replaces the list with it.
	StrategyFullReplace
	// StrategyIncrementalAdd uploads only the added films and appends them.
	StrategyIncrementalAdd
)

func (s Strategy) String() string {
	switch s {
	case StrategyFullReplace:
		return "full-replace"
	case StrategyIncrementalAdd:
		return "incremental-add"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a step of the import state machine.
type State string

const (
	StateStart         State = "START"
	StateStaged        State = "STAGED"
	StateApplying      State = "APPLYING"
	StateApplied       State = "APPLIED"
	StateFailedFull    State = "FAILED_FULL"
	StateFailedPartial State = "FAILED_PARTIAL"
	StateRolledBack    State = "ROLLED_BACK"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateApplied || s == StateRolledBack
}
