package harness

import (
	"fmt"

	"github.com/roach88/ratlist/internal/store"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step     int    `json:"step"` // 1-based
	Op       string `json:"op"`
	Label    string `json:"label,omitempty"`
	Position int    `json:"position,omitempty"`
	ItemID   int64  `json:"item_id,omitempty"`
	Key      string `json:"key,omitempty"`
	Count    int    `json:"count,omitempty"` // items renumbered by compact
	Error    string `json:"error,omitempty"` // reorder.ErrorCode, or the message of an uncoded error
}

// String renders the event as one line of the golden snapshot.
func (e TraceEvent) String() string {
	var head string
	switch e.Op {
	case OpMove:
		head = fmt.Sprintf("%d move %s to %d", e.Step, e.Label, e.Position)
	case OpCompact:
		head = fmt.Sprintf("%d compact", e.Step)
	default:
		head = fmt.Sprintf("%d %s %s", e.Step, e.Op, e.Label)
	}

	switch {
	case e.Error != "":
		return head + " -> error=" + e.Error
	case e.Op == OpCompact:
		return fmt.Sprintf("%s -> items=%d", head, e.Count)
	case e.Op == OpRemove:
		return fmt.Sprintf("%s -> id=%d", head, e.ItemID)
	}
	return fmt.Sprintf("%s -> id=%d key=%s", head, e.ItemID, e.Key)
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// List is the list the scenario ran against.
	List store.ListHandle `json:"list"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Final is the list in display order after the last step.
	Final []store.Item `json:"final"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Final:  []store.Item{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
