package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/store"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	Database string
	Room     string
}

// OrderResult is the JSON payload for an ordering query.
type OrderResult struct {
	Event1   string `json:"event1"`
	Event2   string `json:"event2"`
	Known    bool   `json:"known"`
	Relation string `json:"relation,omitempty"` // "precedes" | "follows" | "same"
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order <event-id-1> <event-id-2>",
		Short: "Ask which of two stored events happened first",
		Long: `Ask the ordering comparator which of two events happened first in a
stored timeline set. Events on chains not known to be connected - for
example, on either side of an unbridged gap - compare as unknown, which
exits with status 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database holding the snapshot")
	cmd.Flags().StringVar(&opts.Room, "room", "", "room identifier")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("room")

	return cmd
}

func runOrder(cmd *cobra.Command, opts *OrderOptions, id1, id2 string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	set, found, err := st.LoadSet(cmd.Context(), opts.Room)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}
	if !found {
		return NewExitError(ExitFailure, fmt.Sprintf("no snapshot stored for room %s", opts.Room))
	}

	cmp, known := set.CompareEventOrdering(id1, id2)
	result := OrderResult{Event1: id1, Event2: id2, Known: known}
	switch {
	case !known:
	case cmp < 0:
		result.Relation = "precedes"
	case cmp > 0:
		result.Relation = "follows"
	default:
		result.Relation = "same"
	}

	if opts.Format == "json" {
		if err := out.Success(result); err != nil {
			return err
		}
	} else if known {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", id1, result.Relation, id2)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "order of %s and %s is unknown\n", id1, id2)
	}

	if !known {
		return NewExitError(ExitFailure, "ordering unknown")
	}
	return nil
}
