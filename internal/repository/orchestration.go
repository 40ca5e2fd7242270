package repository

import "fmt"

// Agent identifiers understood by the downstream dispatch runtime.
const (
	AgentCartographer  = "codebase-cartographer"
	AgentCodeAnalyzer  = "recursive-code-analyzer"
	AgentCodeArchitect = "generic-code-architect"
	AgentAssembler     = "recursive-implementation-assembler"
)

// Branch is one of the four fixed renovation phases, processed strictly in order.
type Branch struct {
	Num   int
	Name  string
	Agent string
}

// OrchestrationState is the persisted record of branch-level progress.
// It is overwritten on every save, never appended to.
type OrchestrationState struct {
	CompletedBranches []int  `json:"completed_branches"`
	LastUpdate        string `json:"last_update,omitempty"`
}

// NewOrchestrationState returns the empty default state used when the state
// file is missing or unreadable.
func NewOrchestrationState() OrchestrationState {
	return OrchestrationState{CompletedBranches: []int{}}
}

// LevelMarker records that a (branch, level) pair needs no further work.
// Only its existence is ever queried; the fields document when and why it
// was written.
type LevelMarker struct {
	Branch    int    `json:"branch"`
	Level     int    `json:"level"`
	Completed bool   `json:"completed"`
	Timestamp string `json:"timestamp"`
}

// NextAction is an orchestrator decision: which agent to invoke and why.
type NextAction struct {
	Agent    string
	Message  string
	Terminal bool // true when the decision is the final assembly hand-off
}

// TaskCommand renders the instruction string consumed by the agent-dispatch
// runtime. It is deliberately unstructured natural language.
func (a NextAction) TaskCommand() string {
	return fmt.Sprintf("Task: Use the %s sub agent to %s", a.Agent, a.Message)
}
