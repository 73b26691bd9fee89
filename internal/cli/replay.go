package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/scenario"
	"github.com/weftlabs/weft/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResult is the JSON payload for a successful replay.
type ReplayResult struct {
	Transcript string `json:"transcript"`
	Room       string `json:"room"`
	Timelines  int    `json:"timelines"`
	Indexed    int    `json:"indexed"`
	Trace      int    `json:"trace_records"`
	Snapshot   string `json:"snapshot"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <transcript.yaml>",
		Short: "Apply a transcript to a fresh timeline set",
		Long: `Apply a transcript of ingestion steps (seeds, backfills, live events,
gaps, removals) to a fresh timeline set and print the resulting chains.

With --db, the final set is persisted as a snapshot and every step is
recorded in the ingest journal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to persist the snapshot into")

	return cmd
}

func runReplay(cmd *cobra.Command, opts *ReplayOptions, path string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	tr, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load transcript", err)
	}

	result, err := scenario.Run(tr)
	if err != nil {
		return WrapExitError(ExitCommandError, "transcript failed", err)
	}

	if opts.Database != "" {
		if err := persistReplay(cmd.Context(), opts.Database, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist snapshot", err)
		}
	}

	if opts.Format == "json" {
		return out.Success(ReplayResult{
			Transcript: tr.Name,
			Room:       result.Set.RoomID(),
			Timelines:  len(result.Set.Timelines()),
			Indexed:    result.Set.IndexSize(),
			Trace:      len(result.Recorder.Changes) + len(result.Recorder.Resets),
			Snapshot:   result.Render(),
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Render())
	return nil
}

// persistReplay saves the final set and journals every transcript step.
func persistReplay(ctx context.Context, path string, result *scenario.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveSet(ctx, result.Set); err != nil {
		return err
	}

	for i, step := range result.Transcript.Steps {
		kind, err := step.Kind()
		if err != nil {
			return err
		}
		payload, err := step.Payload()
		if err != nil {
			return err
		}
		rec := store.JournalRecord{
			Seq:     int64(i + 1),
			Kind:    store.JournalKind(kind),
			Payload: payload,
		}
		if err := st.AppendJournal(ctx, result.Set.RoomID(), rec); err != nil {
			return err
		}
	}

	return nil
}
