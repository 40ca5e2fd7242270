package repository

// StateStore abstracts the filesystem-resident orchestration state so that
// decisions can be tested against an in-memory fake. Every method maps to a
// single artifact of the renovation workflow; none of them cache anything,
// because each orchestrator invocation is a pure function of current state.
type StateStore interface {
	// HasCartography reports whether the upstream codebase analysis artifact
	// exists. Its content is opaque here; existence gates all branch work.
	HasCartography() bool

	// LoadState returns the persisted orchestration state. A missing or
	// corrupt state file yields the empty default state, never an error.
	LoadState() OrchestrationState

	// SaveState overwrites the orchestration state, stamping LastUpdate.
	SaveState(state OrchestrationState) error

	// HasBranchReport reports whether a branch's summary report exists.
	// The report is the sole completion signal for a branch.
	HasBranchReport(branch int) bool

	// LoadPlan returns the worktree plan for a branch, or nil when no plan
	// has been produced yet. A plan that exists but cannot be parsed is an
	// error.
	LoadPlan(branch int) (*WorktreePlan, error)

	// HasLevelMarker reports whether the completion marker for a
	// (branch, level) pair exists.
	HasLevelMarker(branch, level int) bool

	// WriteLevelMarker persists a completion marker. Writing the same marker
	// twice is harmless; content is deterministic and only existence is read.
	WriteLevelMarker(marker LevelMarker) error
}
