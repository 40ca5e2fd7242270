package app

import (
	"fmt"

	"github.com/fpt/go-renova-cli/internal/repository"
)

// memStore is an in-memory repository.StateStore for decision tests.
type memStore struct {
	cartography bool
	state       repository.OrchestrationState
	reports     map[int]bool
	plans       map[int]*repository.WorktreePlan
	markers     map[string]repository.LevelMarker
	planErr     error
	writeErr    error
}

func newMemStore() *memStore {
	return &memStore{
		state:   repository.NewOrchestrationState(),
		reports: make(map[int]bool),
		plans:   make(map[int]*repository.WorktreePlan),
		markers: make(map[string]repository.LevelMarker),
	}
}

func markerKey(branch, level int) string {
	return fmt.Sprintf("b%dl%d", branch, level)
}

func (s *memStore) HasCartography() bool { return s.cartography }

func (s *memStore) LoadState() repository.OrchestrationState { return s.state }

func (s *memStore) SaveState(state repository.OrchestrationState) error {
	state.LastUpdate = "2026-01-01T00:00:00Z"
	s.state = state
	return nil
}

func (s *memStore) HasBranchReport(branch int) bool { return s.reports[branch] }

func (s *memStore) LoadPlan(branch int) (*repository.WorktreePlan, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plans[branch], nil
}

func (s *memStore) HasLevelMarker(branch, level int) bool {
	_, ok := s.markers[markerKey(branch, level)]
	return ok
}

func (s *memStore) WriteLevelMarker(marker repository.LevelMarker) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.markers[markerKey(marker.Branch, marker.Level)] = marker
	return nil
}
