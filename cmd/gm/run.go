package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomedic/internal/app"
	"gomedic/internal/record"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <command text>",
		Short: "Run one record command",
		Long: `Runs a single command against the record and saves it when the command changed it.
Examples:
  gm run list
  gm run add t/doctor n/Amy Tan p/91234567 de/Cardiology
  gm run delete t/activity A002`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *app.Runtime) error {
				res, err := rt.Engine.Execute(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), res, viper.GetBool("json"))
			})
		},
	}
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive command shell",
		Long:  "Reads commands line by line until 'exit' or end of input. History is kept in shell.history_file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *app.Runtime) error {
				return repl(ctx, rt, cmd.OutOrStdout())
			})
		},
	}
}

func repl(ctx context.Context, rt *app.Runtime, out io.Writer) error {
	lin := liner.NewLiner()
	defer lin.Close()
	lin.SetCtrlCAborts(true)

	history := rt.Config.Shell.HistoryFile
	if history != "" && !filepath.IsAbs(history) {
		history = filepath.Join(rt.Workspace, history)
	}
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = lin.ReadHistory(f)
			f.Close()
		}
		defer saveHistory(lin, history, rt)
	}

	snap := record.FromViews(rt.Engine.FilteredPersons(), rt.Engine.FilteredActivities())
	renderPersons(out, snap.Persons)
	renderActivities(out, snap.Activities)
	for ctx.Err() == nil {
		line, err := lin.Prompt(rt.Config.Shell.Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			rt.Logger.Warn("unexpected error reading prompt", "error", err)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lin.AppendHistory(line)
		res, err := rt.Engine.Execute(ctx, line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if err := printResult(out, res, false); err != nil {
			return err
		}
		if res.Exit {
			return nil
		}
	}
	return nil
}

func saveHistory(lin *liner.State, path string, rt *app.Runtime) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		rt.Logger.Warn("save history", "error", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		rt.Logger.Warn("save history", "error", err)
		return
	}
	defer f.Close()
	if _, err := lin.WriteHistory(f); err != nil {
		rt.Logger.Warn("save history", "error", err)
	}
}
