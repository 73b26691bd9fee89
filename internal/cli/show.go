package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/scenario"
	"github.com/weftlabs/weft/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is the JSON payload for a successful show.
type ShowResult struct {
	Room      string `json:"room"`
	Live      string `json:"live"`
	Timelines int    `json:"timelines"`
	Indexed   int    `json:"indexed"`
	Chains    string `json:"chains"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <room>",
		Short: "Render the stored timeline chains for a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database holding the snapshot")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, roomID string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	set, found, err := st.LoadSet(cmd.Context(), roomID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}
	if !found {
		return NewExitError(ExitFailure, fmt.Sprintf("no snapshot stored for room %s", roomID))
	}

	if opts.Format == "json" {
		return out.Success(ShowResult{
			Room:      set.RoomID(),
			Live:      string(set.LiveTimeline().Handle()),
			Timelines: len(set.Timelines()),
			Indexed:   set.IndexSize(),
			Chains:    scenario.RenderChains(set),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "room %s\nlive %s\nindexed %d\n\nchains:\n%s",
		set.RoomID(), set.LiveTimeline().Handle(), set.IndexSize(), scenario.RenderChains(set))
	return nil
}
