package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ratlist/internal/store"
)

// ListsResult is the output of the lists command.
type ListsResult struct {
	Lists []store.ListHandle `json:"lists"`
}

func (r ListsResult) String() string {
	if len(r.Lists) == 0 {
		return "No lists."
	}
	names := make([]string, len(r.Lists))
	for i, l := range r.Lists {
		names[i] = l.Name
	}
	return strings.Join(names, "\n")
}

// DropResult is the output of the drop command.
type DropResult struct {
	Dropped []string `json:"dropped"`
}

func (r DropResult) String() string {
	lines := make([]string, len(r.Dropped))
	for i, name := range r.Dropped {
		lines[i] = "dropped list: " + name
	}
	return strings.Join(lines, "\n")
}

// ItemView is one item as shown to the user.
type ItemView struct {
	Position int    `json:"position"` // 1-based
	ID       int64  `json:"id"`
	Key      string `json:"key"`
	Payload  string `json:"payload"`
}

func (v ItemView) String() string {
	return fmt.Sprintf("%d. %s (id=%d, key=%s)", v.Position, v.Payload, v.ID, v.Key)
}

// ShowResult is the output of the show command.
type ShowResult struct {
	List  string     `json:"list"`
	Items []ItemView `json:"items"`
}

func (r ShowResult) String() string {
	if len(r.Items) == 0 {
		return fmt.Sprintf("%s is empty", r.List)
	}
	lines := make([]string, len(r.Items))
	for i, v := range r.Items {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

func viewItems(items []store.Item) []ItemView {
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = ItemView{Position: i + 1, ID: it.ID, Key: it.Key.String(), Payload: it.Payload}
	}
	return views
}

// NewListsCommand creates the lists command.
func NewListsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show all lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			lists, err := sess.store.Lists(cmd.Context())
			if err != nil {
				return sess.out.Fail("failed to read lists", err)
			}
			return sess.out.Success(ListsResult{Lists: lists})
		},
	}
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <list>...",
		Short: "Delete lists and all of their items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			result := DropResult{Dropped: []string{}}
			for _, name := range args {
				if err := sess.store.DropList(cmd.Context(), name); err != nil {
					return sess.out.Fail(fmt.Sprintf("failed to drop %s", name), err)
				}
				sess.logger.Info("list dropped", "list", name)
				result.Dropped = append(result.Dropped, name)
			}
			return sess.out.Success(result)
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show a list in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			list, err := sess.store.LookupList(cmd.Context(), args[0])
			if err != nil {
				return sess.out.Fail("failed to show list", err)
			}
			items, err := sess.engine.ListOrdered(cmd.Context(), list)
			if err != nil {
				return sess.out.Fail("failed to show list", err)
			}
			return sess.out.Success(ShowResult{List: list.Name, Items: viewItems(items)})
		},
	}
}
