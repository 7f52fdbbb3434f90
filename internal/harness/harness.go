package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/ratlist/internal/fraction"
	"github.com/roach88/ratlist/internal/reorder"
	"github.com/roach88/ratlist/internal/store"
	"github.com/roach88/ratlist/internal/testutil"
)

// DefaultList is the list name used when a scenario does not set one.
const DefaultList = "default"

// missingID stands in for labels that never named an item. Store ids start
// at 1, so it never matches a row.
const missingID int64 = -1

// Harness executes scenario steps against one engine.
type Harness struct {
	engine *reorder.Engine
	list   store.ListHandle
	labels map[string]int64
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database with sequential list ids
// 2. Open the scenario's list
// 3. Execute steps, checking expect_error and expect_key
// 4. Check key order and expect_order on the final list
//
// The returned error covers infrastructure failures only; scenario
// mismatches are recorded in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDs("list")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := testutil.DiscardLogger()
	eng := reorder.New(st, logger)
	ctx := context.Background()

	name := scenario.List
	if name == "" {
		name = DefaultList
	}
	list, err := eng.OpenList(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open list: %w", err)
	}

	h := &Harness{
		engine: eng,
		list:   list,
		labels: make(map[string]int64),
		logger: logger,
	}

	result := NewResult()
	result.List = list

	for i, step := range scenario.Steps {
		event, err := h.execute(ctx, i+1, step)
		if err != nil {
			event.Error = errorLabel(err)
		}
		result.Trace = append(result.Trace, event)
		checkStep(result, event, step)
	}

	final, err := eng.ListOrdered(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to read final list: %w", err)
	}
	result.Final = final
	checkFinal(result, scenario)

	return result, nil
}

// execute performs one step. The event is filled in as far as the step got.
func (h *Harness) execute(ctx context.Context, n int, step Step) (TraceEvent, error) {
	event := TraceEvent{Step: n, Op: step.Kind()}

	switch event.Op {
	case OpAppend:
		event.Label = step.Append
		item, err := h.engine.Append(ctx, h.list, step.Append)
		if err != nil {
			return event, err
		}
		h.labels[step.Append] = item.ID
		event.ItemID = item.ID
		event.Key = item.Key.String()

	case OpMove:
		event.Label = step.Move
		event.Position = step.To
		event.ItemID = h.lookup(step.Move)
		key, err := h.engine.MoveTo(ctx, h.list, event.ItemID, step.To)
		if err != nil {
			return event, err
		}
		event.Key = key.String()

	case OpRemove:
		event.Label = step.Remove
		event.ItemID = h.lookup(step.Remove)
		if err := h.engine.Remove(ctx, h.list, event.ItemID); err != nil {
			return event, err
		}

	case OpCompact:
		count, err := h.engine.Compact(ctx, h.list)
		if err != nil {
			return event, err
		}
		event.Count = count

	default:
		return event, fmt.Errorf("step %d names no operation", n)
	}

	h.logger.Debug("step executed", "step", n, "op", event.Op, "label", event.Label)
	return event, nil
}

func (h *Harness) lookup(label string) int64 {
	if id, ok := h.labels[label]; ok {
		return id
	}
	return missingID
}

func errorLabel(err error) string {
	if code := reorder.CodeOf(err); code != "" {
		return string(code)
	}
	return err.Error()
}

func checkStep(result *Result, event TraceEvent, step Step) {
	if step.ExpectError != "" {
		if event.Error != step.ExpectError {
			result.AddError("step %d: error = %q, want %q", event.Step, event.Error, step.ExpectError)
		}
		return
	}
	if event.Error != "" {
		result.AddError("step %d: unexpected error %s", event.Step, event.Error)
		return
	}
	if step.ExpectKey == "" {
		return
	}

	want, err := fraction.Parse(step.ExpectKey)
	if err != nil {
		result.AddError("step %d: bad expect_key: %v", event.Step, err)
		return
	}
	got, err := fraction.Parse(event.Key)
	if err != nil || fraction.Compare(got, want) != 0 {
		result.AddError("step %d: key = %s, want %s", event.Step, event.Key, step.ExpectKey)
	}
}

func checkFinal(result *Result, scenario *Scenario) {
	payloads := make([]string, len(result.Final))
	for i, it := range result.Final {
		payloads[i] = it.Payload
		if i > 0 && !fraction.Less(result.Final[i-1].Key, it.Key) {
			result.AddError("final: keys %s, %s at positions %d, %d not increasing",
				result.Final[i-1].Key, it.Key, i, i+1)
		}
	}

	if scenario.ExpectOrder != nil && !slices.Equal(payloads, scenario.ExpectOrder) {
		result.AddError("final order = %v, want %v", payloads, scenario.ExpectOrder)
	}
}
