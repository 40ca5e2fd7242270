package app

import (
	"fmt"
	"time"

	"github.com/fpt/go-renova-cli/internal/repository"
)

// LevelOrchestrator walks the depth levels of one branch's worktree plan in
// ascending order and picks the next level with actual pending work. Levels
// whose nodes need nothing are marked complete on the way, so a single call
// can auto-complete any run of empty levels before returning a decision.
type LevelOrchestrator struct {
	store  repository.StateStore
	branch int
}

// NewLevelOrchestrator creates a level orchestrator for the given branch.
func NewLevelOrchestrator(store repository.StateStore, branch int) *LevelOrchestrator {
	return &LevelOrchestrator{store: store, branch: branch}
}

// Branch returns the branch number this orchestrator is bound to.
func (o *LevelOrchestrator) Branch() int {
	return o.branch
}

// DetermineNextAction decides the next action for the branch. It returns an
// error only for a plan that exists but is invalid (unparseable JSON, or a
// levels mapping with no non-negative integer keys); a missing plan is a
// normal decision directing the runtime to run the analysis step.
func (o *LevelOrchestrator) DetermineNextAction() (repository.NextAction, error) {
	log := logger.WithBranch(o.branch)

	plan, err := o.store.LoadPlan(o.branch)
	if err != nil {
		return repository.NextAction{}, err
	}
	if plan == nil {
		return repository.NextAction{
			Agent:   repository.AgentCodeAnalyzer,
			Message: fmt.Sprintf("No worktree plan found for Branch %d. Please run recursive analysis.", o.branch),
		}, nil
	}

	maxDepth, err := plan.MaxDepth()
	if err != nil {
		return repository.NextAction{}, err
	}

	// Single forward walk, bounded by maxDepth+1 levels. Markers are never
	// removed, so marking a level complete cannot change the verdict on any
	// level already passed; walking on is equivalent to the re-evaluation
	// from scratch that the workflow requires.
	for level := 0; level <= maxDepth; level++ {
		if o.store.HasLevelMarker(o.branch, level) {
			continue
		}

		pending := 0
		for _, node := range plan.NodesAt(level) {
			if node.NeedsWork() {
				pending++
			}
		}

		if pending == 0 {
			if err := o.markLevelComplete(level); err != nil {
				return repository.NextAction{}, err
			}
			log.Debug("Level auto-completed, re-evaluating", "level", level)
			continue
		}

		return repository.NextAction{
			Agent:   repository.AgentCodeArchitect,
			Message: fmt.Sprintf("Process Branch %d, Level %d. Nodes to process: %d.", o.branch, level, pending),
		}, nil
	}

	return repository.NextAction{
		Agent:    repository.AgentAssembler,
		Message:  fmt.Sprintf("All levels in Branch %d are complete. Begin assembly.", o.branch),
		Terminal: true,
	}, nil
}

// markLevelComplete writes the completion marker for a level that needs no
// agent action. The marker is deterministic apart from its timestamp, so a
// concurrent duplicate write is harmless.
func (o *LevelOrchestrator) markLevelComplete(level int) error {
	return o.store.WriteLevelMarker(repository.LevelMarker{
		Branch:    o.branch,
		Level:     level,
		Completed: true,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
