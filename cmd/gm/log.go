package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomedic/internal/record"
	"gomedic/internal/repo"
)

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Command event log",
		Long:  "Every command run through gm is recorded with its outcome: ok, parse_error, rejected or save_failed.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var command, outcome string
	var follow bool
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the latest events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				evts, err := r.LatestEvents(ctx, n, repo.EventFilters{Command: command, Outcome: outcome})
				if err != nil {
					return err
				}
				// oldest first, like tail
				for i, j := 0, len(evts)-1; i < j; i, j = i+1, j-1 {
					evts[i], evts[j] = evts[j], evts[i]
				}
				if err := printEvents(cmd, evts); err != nil {
					return err
				}
				if !follow {
					return nil
				}
				cursor, err := tailCursor(ctx, r, evts)
				if err != nil {
					return err
				}
				ticker := time.NewTicker(500 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
					}
					next, err := r.EventsAfter(ctx, 100, cursor)
					if err != nil {
						return err
					}
					if len(next) == 0 {
						continue
					}
					cursor = next[len(next)-1].ID
					if err := printEvents(cmd, filterEvents(next, command, outcome)); err != nil {
						return err
					}
				}
			})
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 20, "number of events")
	cmd.Flags().StringVar(&command, "command", "", "command word filter, e.g. add")
	cmd.Flags().StringVar(&outcome, "outcome", "", "outcome filter")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new events")
	return cmd
}

// tailCursor is the id following starts after: the newest event already shown, or the
// newest in the log when nothing was shown.
func tailCursor(ctx context.Context, r repo.Repo, shown []record.Event) (int64, error) {
	var cursor int64
	for _, e := range shown {
		cursor = max(cursor, e.ID)
	}
	if cursor > 0 {
		return cursor, nil
	}
	return r.LatestEventID(ctx)
}

func printEvents(cmd *cobra.Command, evts []record.Event) error {
	if len(evts) == 0 {
		return nil
	}
	if viper.GetBool("json") {
		return writeJSON(cmd.OutOrStdout(), evts)
	}
	renderEvents(cmd.OutOrStdout(), evts)
	return nil
}

func filterEvents(evts []record.Event, command, outcome string) []record.Event {
	out := evts[:0]
	for _, e := range evts {
		if (command == "" || e.Command == command) && (outcome == "" || e.Outcome == outcome) {
			out = append(out, e)
		}
	}
	return out
}
