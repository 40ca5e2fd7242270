package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fpt/go-renova-cli/internal/repository"
)

func TestChunkCartographyGate(t *testing.T) {
	store := newMemStore()
	// Even with branch progress on record, no cartography means no branch work
	store.state = repository.OrchestrationState{CompletedBranches: []int{0, 1, 2, 3}}
	store.reports[0] = true

	action := NewChunkOrchestrator(store).DetermineNextAction()
	if action.Agent != repository.AgentCartographer {
		t.Errorf("expected cartographer gate, got agent %q", action.Agent)
	}
	if action.Terminal {
		t.Error("gate action must not be terminal")
	}
}

func TestChunkFirstIncompleteWins(t *testing.T) {
	store := newMemStore()
	store.cartography = true
	store.reports[0] = true
	store.reports[1] = true
	// Branch 3 finished out of order; it must not matter while 2 is pending
	store.reports[3] = true

	action := NewChunkOrchestrator(store).DetermineNextAction()
	if action.Agent != "renovation-architect-b2l0" {
		t.Errorf("expected branch 2 architect, got %q", action.Agent)
	}
	if !strings.Contains(action.Message, "Branch 2") || !strings.Contains(action.Message, "Class") {
		t.Errorf("message should name branch 2 (Class): %q", action.Message)
	}
}

func TestChunkFreshProjectStartsAtBranchZero(t *testing.T) {
	store := newMemStore()
	store.cartography = true

	action := NewChunkOrchestrator(store).DetermineNextAction()
	if action.Agent != "renovation-architect-b0l0" {
		t.Errorf("expected branch 0 architect, got %q", action.Agent)
	}
}

func TestChunkCodeBranchHandsOffToAnalyzer(t *testing.T) {
	store := newMemStore()
	store.cartography = true
	for branch := 0; branch < 3; branch++ {
		store.reports[branch] = true
	}

	action := NewChunkOrchestrator(store).DetermineNextAction()
	if action.Agent != repository.AgentCodeAnalyzer {
		t.Errorf("branch 3 should dispatch the recursive analyzer, got %q", action.Agent)
	}
}

func TestChunkTerminalActionIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.cartography = true
	for branch := 0; branch < 4; branch++ {
		store.reports[branch] = true
	}

	orch := NewChunkOrchestrator(store)
	for i := 0; i < 3; i++ {
		action := orch.DetermineNextAction()
		if action.Agent != repository.AgentAssembler || !action.Terminal {
			t.Fatalf("call %d: expected terminal assembler action, got %+v", i, action)
		}
	}
}

func TestChunkDecisionNeverWrites(t *testing.T) {
	store := newMemStore()
	store.cartography = true

	before := len(store.state.CompletedBranches)
	NewChunkOrchestrator(store).DetermineNextAction()
	if len(store.state.CompletedBranches) != before || len(store.markers) != 0 {
		t.Error("DetermineNextAction must not write state")
	}
}

func TestMarkBranchCompleted(t *testing.T) {
	store := newMemStore()
	orch := NewChunkOrchestrator(store)

	if err := orch.MarkBranchCompleted(1); err != nil {
		t.Fatalf("MarkBranchCompleted failed: %v", err)
	}
	if err := orch.MarkBranchCompleted(1); err != nil {
		t.Fatalf("repeated mark failed: %v", err)
	}

	state := orch.LoadState()
	if len(state.CompletedBranches) != 1 || state.CompletedBranches[0] != 1 {
		t.Errorf("unexpected state: %+v", state)
	}
	if state.LastUpdate == "" {
		t.Error("save should stamp LastUpdate")
	}
}

func TestWriteDecision(t *testing.T) {
	var buf bytes.Buffer
	WriteDecision(&buf, "Orchestrator Decision", repository.NextAction{
		Agent:   repository.AgentCartographer,
		Message: "No cartography found. Please analyze the codebase first.",
	})

	out := buf.String()
	for _, want := range []string{
		"--- Orchestrator Decision ---",
		"Next Agent to Invoke: codebase-cartographer",
		"Reason/Message: No cartography found. Please analyze the codebase first.",
		"--- Command for Meta-Agent ---",
		"Task: Use the codebase-cartographer sub agent to No cartography found. Please analyze the codebase first.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("decision block missing %q:\n%s", want, out)
		}
	}
}
