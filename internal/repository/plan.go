package repository

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ErrInvalidPlan indicates a worktree plan whose levels mapping is empty or
// contains keys that are not non-negative integers. Such plans are rejected
// rather than treated as "nothing to do".
var ErrInvalidPlan = errors.New("worktree plan has no valid level keys")

// PlanNode is a unit of work at one level of a branch's work tree. Analyzer
// agents attach extra fields (paths, symbol names, notes); those are kept in
// Extra so the plan can round-trip without this package knowing about them.
type PlanNode struct {
	IsLeaf          bool           `json:"is_leaf"`
	NeedsRenovation bool           `json:"needs_renovation"`
	Extra           map[string]any `json:"-"`
}

// NeedsWork reports whether a node still requires agent attention. Non-leaf
// nodes always do; leaves only when flagged for renovation.
func (n PlanNode) NeedsWork() bool {
	return !n.IsLeaf || n.NeedsRenovation
}

func (n *PlanNode) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["is_leaf"]; ok {
		if err := json.Unmarshal(raw, &n.IsLeaf); err != nil {
			return errors.Wrap(err, "plan node: is_leaf")
		}
		delete(fields, "is_leaf")
	}
	if raw, ok := fields["needs_renovation"]; ok {
		if err := json.Unmarshal(raw, &n.NeedsRenovation); err != nil {
			return errors.Wrap(err, "plan node: needs_renovation")
		}
		delete(fields, "needs_renovation")
	}

	if len(fields) > 0 {
		n.Extra = make(map[string]any, len(fields))
		for key, raw := range fields {
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				return err
			}
			n.Extra[key] = value
		}
	}

	return nil
}

func (n PlanNode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+2)
	for key, value := range n.Extra {
		out[key] = value
	}
	out["is_leaf"] = n.IsLeaf
	out["needs_renovation"] = n.NeedsRenovation
	return json.Marshal(out)
}

// WorktreePlan is the externally-produced per-branch breakdown of work,
// keyed by depth level. It is immutable input: orchestrators never write it.
type WorktreePlan struct {
	Levels map[string][]PlanNode `json:"levels"`
}

// MaxDepth returns the largest level key in the plan. Every key must parse
// as a non-negative integer; anything else is ErrInvalidPlan, as is an empty
// levels mapping.
func (p *WorktreePlan) MaxDepth() (int, error) {
	if len(p.Levels) == 0 {
		return 0, ErrInvalidPlan
	}

	maxDepth := -1
	for key := range p.Levels {
		level, err := strconv.Atoi(key)
		if err != nil || level < 0 {
			return 0, errors.Wrapf(ErrInvalidPlan, "level key %q", key)
		}
		if level > maxDepth {
			maxDepth = level
		}
	}

	return maxDepth, nil
}

// NodesAt returns the nodes recorded for a level. A level absent from the
// mapping simply has no nodes.
func (p *WorktreePlan) NodesAt(level int) []PlanNode {
	return p.Levels[strconv.Itoa(level)]
}
