package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fpt/go-renova-cli/internal/repository"
	pkgLogger "github.com/fpt/go-renova-cli/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("statestore")

// Well-known artifact names under the state directory. The layout is shared
// with the external analyzer and assembler agents, so these are part of the
// workflow contract, not an implementation detail.
const (
	cartographyFile = "codebase-cartography.json"
	stateFile       = "orchestration-state.json"
)

// FileStateStore implements repository.StateStore on top of a project
// directory. All orchestration state lives under <root>/.renova/state and
// branch summary reports under <root>/.renova/reports.
type FileStateStore struct {
	stateDir   string
	reportsDir string
}

// NewFileStateStore creates a store rooted at the given project directory.
// Nothing is created on disk until the first write.
func NewFileStateStore(root string) *FileStateStore {
	return &FileStateStore{
		stateDir:   filepath.Join(root, ".renova", "state"),
		reportsDir: filepath.Join(root, ".renova", "reports"),
	}
}

// StateDir returns the directory holding orchestration state files.
func (s *FileStateStore) StateDir() string {
	return s.stateDir
}

func (s *FileStateStore) HasCartography() bool {
	return fileExists(filepath.Join(s.stateDir, cartographyFile))
}

func (s *FileStateStore) LoadState() repository.OrchestrationState {
	data, err := os.ReadFile(filepath.Join(s.stateDir, stateFile))
	if err != nil {
		return repository.NewOrchestrationState()
	}

	var state repository.OrchestrationState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state is recovered by starting over from the empty default;
		// every decision is safe to recompute from disk.
		logger.WarnWithIcon("⚠️", "Orchestration state unreadable, using defaults", "error", err)
		return repository.NewOrchestrationState()
	}
	if state.CompletedBranches == nil {
		state.CompletedBranches = []int{}
	}

	return state
}

func (s *FileStateStore) SaveState(state repository.OrchestrationState) error {
	if err := os.MkdirAll(s.stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	state.LastUpdate = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orchestration state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.stateDir, stateFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write orchestration state: %w", err)
	}

	return nil
}

func (s *FileStateStore) HasBranchReport(branch int) bool {
	return fileExists(filepath.Join(s.reportsDir, fmt.Sprintf("branch-%d-summary.md", branch)))
}

func (s *FileStateStore) LoadPlan(branch int) (*repository.WorktreePlan, error) {
	path := filepath.Join(s.stateDir, fmt.Sprintf("worktree-plan-b%d.json", branch))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree plan: %w", err)
	}

	var plan repository.WorktreePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse worktree plan %s: %w", path, err)
	}

	return &plan, nil
}

func (s *FileStateStore) HasLevelMarker(branch, level int) bool {
	return fileExists(s.markerPath(branch, level))
}

func (s *FileStateStore) WriteLevelMarker(marker repository.LevelMarker) error {
	if err := os.MkdirAll(s.stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level marker: %w", err)
	}
	if err := os.WriteFile(s.markerPath(marker.Branch, marker.Level), data, 0644); err != nil {
		return fmt.Errorf("failed to write level marker: %w", err)
	}

	return nil
}

func (s *FileStateStore) markerPath(branch, level int) string {
	return filepath.Join(s.stateDir, fmt.Sprintf("level-complete-b%dl%d.json", branch, level))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
