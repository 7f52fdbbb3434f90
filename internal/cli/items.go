package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// MoveResult is the output of the move command.
type MoveResult struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Key      string `json:"key"`
}

func (r MoveResult) String() string {
	return fmt.Sprintf("moved id %d to position %d (key=%s)", r.ID, r.Position, r.Key)
}

// RemoveResult is the output of the rm command.
type RemoveResult struct {
	Removed []int64 `json:"removed"`
}

func (r RemoveResult) String() string {
	lines := make([]string, len(r.Removed))
	for i, id := range r.Removed {
		lines[i] = fmt.Sprintf("deleted id %d", id)
	}
	return strings.Join(lines, "\n")
}

// CompactResult is the output of the compact command.
type CompactResult struct {
	List  string `json:"list"`
	Items int    `json:"items"`
}

func (r CompactResult) String() string {
	return fmt.Sprintf("compacted %s: %d items", r.List, r.Items)
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <payload>...",
		Short: "Append an item, creating the list if needed",
		Long: `Append an item to the end of a list, creating the list if needed.

The payload words are joined with single spaces.

Example:
  ratlist add groceries oat milk`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			list, err := sess.engine.OpenList(cmd.Context(), args[0])
			if err != nil {
				return sess.out.Fail("failed to open list", err)
			}
			payload := strings.Join(args[1:], " ")
			item, err := sess.engine.Append(cmd.Context(), list, payload)
			if err != nil {
				return sess.out.Fail(fmt.Sprintf("failed to add %s", payload), err)
			}

			count, err := sess.store.Count(cmd.Context(), list.ID)
			if err != nil {
				return sess.out.Fail("failed to count items", err)
			}
			return sess.out.Success(ItemView{
				Position: count,
				ID:       item.ID,
				Key:      item.Key.String(),
				Payload:  item.Payload,
			})
		},
	}
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <list> <id> <position>",
		Short: "Move an item to a 1-based position",
		Long: `Move an item to a 1-based display position.

Only the moved item's key is rewritten.

Example:
  ratlist move groceries 3 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			id, err := parseID(args[1])
			if err != nil {
				return out.Usage(err.Error())
			}
			position, err := strconv.Atoi(args[2])
			if err != nil {
				return out.Usage(fmt.Sprintf("invalid position %q: must be an integer", args[2]))
			}

			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			list, err := sess.store.LookupList(cmd.Context(), args[0])
			if err != nil {
				return sess.out.Fail("failed to move item", err)
			}
			key, err := sess.engine.MoveTo(cmd.Context(), list, id, position)
			if err != nil {
				return sess.out.Fail("failed to move item", err)
			}
			return sess.out.Success(MoveResult{ID: id, Position: position, Key: key.String()})
		},
	}
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <list> <id>...",
		Aliases: []string{"del"},
		Short:   "Delete items by id",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			ids := make([]int64, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := parseID(arg)
				if err != nil {
					return out.Usage(err.Error())
				}
				ids = append(ids, id)
			}

			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			list, err := sess.store.LookupList(cmd.Context(), args[0])
			if err != nil {
				return sess.out.Fail("failed to delete items", err)
			}
			removed, err := sess.engine.RemoveMany(cmd.Context(), list, ids...)
			if err != nil {
				// Report what did go before the failures.
				if len(removed) > 0 && rootOpts.Format != "json" {
					if writeErr := sess.out.Success(RemoveResult{Removed: removed}); writeErr != nil {
						return writeErr
					}
				}
				return sess.out.Fail("failed to delete items", err)
			}
			return sess.out.Success(RemoveResult{Removed: removed})
		},
	}
}

// NewCompactCommand creates the compact command.
func NewCompactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compact <list>",
		Short: "Renumber keys to 1/1, 2/1, ... keeping the order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			list, err := sess.store.LookupList(cmd.Context(), args[0])
			if err != nil {
				return sess.out.Fail("failed to compact list", err)
			}
			n, err := sess.engine.Compact(cmd.Context(), list)
			if err != nil {
				return sess.out.Fail("failed to compact list", err)
			}
			return sess.out.Success(CompactResult{List: list.Name, Items: n})
		},
	}
}

// parseID parses a positive item id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
