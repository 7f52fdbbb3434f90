// Package harness runs ordered-list scenarios against a real engine and
// store and compares the outcome with golden snapshots.
//
// # Scenario Format
//
// Scenarios are YAML files. Items are referred to by their payload label;
// each step performs exactly one operation:
//
//	name: move_to_front
//	description: "Moving the last item to position 1"
//	list: todo
//	steps:
//	  - append: A
//	  - append: B
//	  - append: C
//	  - move: C
//	    to: 1
//	    expect_key: 1/2
//	  - remove: Z
//	    expect_error: NOT_FOUND
//	expect_order: [C, A, B]
//
// A step with expect_error must fail with that reorder.ErrorCode; any other
// step must succeed. expect_key checks the key produced by append or move.
//
// # Execution
//
// Each scenario runs in a fresh in-memory database with sequential list ids,
// so item ids, keys and list ids are identical on every run. After the last
// step the harness checks that keys are strictly increasing and that the
// final order matches expect_order.
//
// # Golden files
//
// RunWithGolden renders the step log and final list as plain text and
// compares it with testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
