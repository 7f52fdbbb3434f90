package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ratlist/internal/store"
)

const clearScreen = "\x1b[2J\x1b[1;1H"

const outerHelp = `Commands:
    .tables - display all lists
    .select - select a list to enter edit mode
    .drop   - drop list(s)
    .help   - print help
    .quit   - quit ratlist
`

const innerHelp = `Commands:
    add     - append a new item to the list
    del     - delete item(s) from the list
    move    - move an item to a position
    list    - display the list
    compact - renumber the keys of the list
    help    - print help
    quit    - quit edit mode
`

// errInputClosed ends the session when stdin reaches EOF.
var errInputClosed = errors.New("input closed")

// NewReplCommand creates the interactive repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit lists interactively",
		Long: `Edit lists interactively.

The outer prompt manages lists (.tables, .select, .drop). Selecting a list
enters edit mode with the prompt "(list) >>> " where items can be added,
deleted, moved and listed. Type .help or help for the commands of each level.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer sess.Close()

			r := newRepl(sess, cmd.InOrStdin(), cmd.OutOrStdout())
			return r.run(cmd.Context())
		},
	}
}

// repl runs the two-level interactive loop. Operation failures are printed
// and the loop continues; only read failures end it.
type repl struct {
	sess *session
	in   *bufio.Scanner
	out  io.Writer
}

func newRepl(sess *session, in io.Reader, out io.Writer) *repl {
	return &repl{sess: sess, in: bufio.NewScanner(in), out: out}
}

// prompt prints p and reads one trimmed line.
func (r *repl) prompt(p string) (string, error) {
	fmt.Fprint(r.out, p)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(r.in.Text()), nil
}

func (r *repl) run(ctx context.Context) error {
	for {
		line, err := r.prompt(">>> ")
		if errors.Is(err, errInputClosed) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		switch line {
		case "":
		case "clear":
			fmt.Fprint(r.out, clearScreen)
		case ".quit":
			return nil
		case ".tables":
			r.tables(ctx)
		case ".select":
			if err := r.selectList(ctx); err != nil {
				if errors.Is(err, errInputClosed) {
					fmt.Fprintln(r.out)
					return nil
				}
				return err
			}
		case ".drop":
			if err := r.drop(ctx); err != nil {
				if errors.Is(err, errInputClosed) {
					return nil
				}
				return err
			}
		case ".help":
			fmt.Fprint(r.out, outerHelp)
		default:
			fmt.Fprintf(r.out, "%q is not a valid command\n", line)
			fmt.Fprint(r.out, outerHelp)
		}
	}
}

func (r *repl) tables(ctx context.Context) {
	lists, err := r.sess.store.Lists(ctx)
	if err != nil {
		fmt.Fprintf(r.out, "failed to read lists: %v\n", err)
		return
	}
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = l.Name
	}
	fmt.Fprintln(r.out, strings.Join(names, " "))
}

func (r *repl) drop(ctx context.Context) error {
	line, err := r.prompt("-> Please enter list(s) to drop: ")
	if err != nil {
		return err
	}
	for _, name := range strings.Fields(line) {
		if err := r.sess.store.DropList(ctx, name); err != nil {
			fmt.Fprintf(r.out, "failed to drop %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(r.out, "dropped list: %s\n", name)
	}
	return nil
}

func (r *repl) selectList(ctx context.Context) error {
	name, err := r.prompt("-> Please enter list to create/modify: ")
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(r.out, "no list selected")
		return nil
	}
	list, err := r.sess.engine.OpenList(ctx, name)
	if err != nil {
		fmt.Fprintf(r.out, "failed to open %s: %v\n", name, err)
		return nil
	}
	return r.edit(ctx, list)
}

// edit is the inner loop over one list. Commands take their arguments on
// the same line or prompt for them.
func (r *repl) edit(ctx context.Context, list store.ListHandle) error {
	p := fmt.Sprintf("(%s) >>> ", list.Name)
	for {
		line, err := r.prompt(p)
		if err != nil {
			return err
		}

		command, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "":
		case "clear":
			fmt.Fprint(r.out, clearScreen)
		case "quit":
			return nil
		case "add":
			if err := r.add(ctx, list, rest); err != nil {
				return err
			}
		case "del":
			if err := r.del(ctx, list, rest); err != nil {
				return err
			}
		case "move":
			if err := r.move(ctx, list, rest); err != nil {
				return err
			}
		case "list":
			r.list(ctx, list)
		case "compact":
			n, err := r.sess.engine.Compact(ctx, list)
			if err != nil {
				fmt.Fprintf(r.out, "failed to compact: %v\n", err)
				continue
			}
			fmt.Fprintf(r.out, "compacted %d items\n", n)
		case "help":
			fmt.Fprint(r.out, innerHelp)
		default:
			fmt.Fprintf(r.out, "%q is not a valid command\n", line)
			fmt.Fprint(r.out, innerHelp)
		}
	}
}

// argOrPrompt returns arg, or asks for it when it is empty.
func (r *repl) argOrPrompt(arg, p string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return r.prompt(p)
}

func (r *repl) add(ctx context.Context, list store.ListHandle, arg string) error {
	payload, err := r.argOrPrompt(arg, "-> Enter item: ")
	if err != nil {
		return err
	}
	if payload == "" {
		fmt.Fprintln(r.out, "nothing to add")
		return nil
	}
	item, err := r.sess.engine.Append(ctx, list, payload)
	if err != nil {
		fmt.Fprintf(r.out, "failed to add %s: %v\n", payload, err)
		return nil
	}
	fmt.Fprintf(r.out, "added %s (id=%d)\n", item.Payload, item.ID)
	return nil
}

func (r *repl) del(ctx context.Context, list store.ListHandle, arg string) error {
	line, err := r.argOrPrompt(arg, "-> Enter id(s): ")
	if err != nil {
		return err
	}
	for _, field := range strings.Fields(line) {
		id, err := parseID(field)
		if err != nil {
			fmt.Fprintf(r.out, "failed to delete id %s: %v\n", field, err)
			continue
		}
		if err := r.sess.engine.Remove(ctx, list, id); err != nil {
			fmt.Fprintf(r.out, "failed to delete id %d: %v\n", id, err)
			continue
		}
		fmt.Fprintf(r.out, "deleted id %d\n", id)
	}
	return nil
}

func (r *repl) move(ctx context.Context, list store.ListHandle, arg string) error {
	line, err := r.argOrPrompt(arg, "-> Enter id and position: ")
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		fmt.Fprintln(r.out, "move needs an id and a position")
		return nil
	}
	id, err := parseID(fields[0])
	if err != nil {
		fmt.Fprintf(r.out, "cannot move: %v\n", err)
		return nil
	}
	position, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(r.out, "cannot parse a non integer: %v\n", err)
		return nil
	}

	key, err := r.sess.engine.MoveTo(ctx, list, id, position)
	if err != nil {
		fmt.Fprintf(r.out, "failed to move id %d: %v\n", id, err)
		return nil
	}
	fmt.Fprintf(r.out, "moved id %d to position %d (key=%s)\n", id, position, key)
	return nil
}

func (r *repl) list(ctx context.Context, list store.ListHandle) {
	items, err := r.sess.engine.ListOrdered(ctx, list)
	if err != nil {
		fmt.Fprintf(r.out, "failed to list: %v\n", err)
		return
	}
	for _, v := range viewItems(items) {
		fmt.Fprintln(r.out, v)
	}
}
