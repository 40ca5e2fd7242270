package app

import (
	"fmt"

	"github.com/fpt/go-renova-cli/internal/repository"
	pkgLogger "github.com/fpt/go-renova-cli/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("orchestrator")

// renovationBranches returns the fixed branch sequence. Branch 3 hands off to
// the recursive analyzer rather than an architect because the Code branch is
// driven level by level (see LevelOrchestrator).
func renovationBranches() []repository.Branch {
	return []repository.Branch{
		{Num: 0, Name: "Container", Agent: "renovation-architect-b0l0"},
		{Num: 1, Name: "Component", Agent: "renovation-architect-b1l0"},
		{Num: 2, Name: "Class", Agent: "renovation-architect-b2l0"},
		{Num: 3, Name: "Code", Agent: repository.AgentCodeAnalyzer},
	}
}

// ChunkOrchestrator decides which renovation branch to work on next. It is
// stateless between invocations; every decision is recomputed from the store.
type ChunkOrchestrator struct {
	store repository.StateStore
}

// NewChunkOrchestrator creates a chunk-based orchestrator over the given store.
func NewChunkOrchestrator(store repository.StateStore) *ChunkOrchestrator {
	return &ChunkOrchestrator{store: store}
}

// DetermineNextAction picks the next branch-level agent to invoke. Branches
// are strictly ordered: the first one without a summary report wins, and a
// later branch's report never matters while an earlier branch is incomplete.
func (o *ChunkOrchestrator) DetermineNextAction() repository.NextAction {
	if !o.store.HasCartography() {
		return repository.NextAction{
			Agent:   repository.AgentCartographer,
			Message: "No cartography found. Please analyze the codebase first.",
		}
	}

	for _, branch := range renovationBranches() {
		if !o.store.HasBranchReport(branch.Num) {
			logger.Debug("Branch incomplete", "branch", branch.Num, "name", branch.Name)
			return repository.NextAction{
				Agent:   branch.Agent,
				Message: branchStartMessage(branch),
			}
		}
	}

	return repository.NextAction{
		Agent:    repository.AgentAssembler,
		Message:  "All branches are complete. Begin final assembly of the renovated codebase.",
		Terminal: true,
	}
}

func branchStartMessage(branch repository.Branch) string {
	return fmt.Sprintf("Begin Branch %d (%s renovation).", branch.Num, branch.Name)
}

// LoadState exposes the persisted branch progress for callers that render it.
// DetermineNextAction never consults it for completion; summary reports are
// the sole completion signal.
func (o *ChunkOrchestrator) LoadState() repository.OrchestrationState {
	return o.store.LoadState()
}

// MarkBranchCompleted records a branch in the persisted state. The decision
// flow itself never calls this; it exists for callers that track progress.
func (o *ChunkOrchestrator) MarkBranchCompleted(branch int) error {
	state := o.store.LoadState()
	for _, done := range state.CompletedBranches {
		if done == branch {
			return nil
		}
	}
	state.CompletedBranches = append(state.CompletedBranches, branch)
	return o.store.SaveState(state)
}
