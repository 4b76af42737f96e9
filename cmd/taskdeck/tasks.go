package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/taskdeck/internal/app"
	"github.com/five82/taskdeck/internal/output"
	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/syncengine"
	"github.com/five82/taskdeck/internal/todos"
)

// session is what every one-shot command needs: an engine over a fresh
// store and the client behind it.
type session struct {
	engine *syncengine.Engine
	client *todos.Client
}

func newSession(g *globals) (*session, error) {
	cfg, err := app.LoadConfig(g.options())
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(os.Stderr, slog.LevelWarn, g.verbose)
	engine, client, err := app.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{engine: engine, client: client}, nil
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "table", "output format (table, json, yaml)")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func listCmd(g *globals) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			if err := s.engine.LoadTasks(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", syncengine.LoadFailedMessage, err)
			}
			return output.WriteTasks(cmd.OutOrStdout(), f, s.engine.Snapshot().Tasks)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func addCmd(g *globals) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Long:  "Create a task. All arguments are joined with spaces to form the title.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			task, err := s.engine.AddTask(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, syncengine.ErrEmptyTitle) {
				return errors.New("title must not be empty")
			}
			if err != nil {
				return err
			}
			return output.WriteTask(cmd.OutOrStdout(), f, task)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func toggleCmd(g *globals) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			if err := s.engine.LoadTasks(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", syncengine.LoadFailedMessage, err)
			}
			current, ok := s.engine.Snapshot().Task(id)
			if !ok {
				return fmt.Errorf("task %d: %w", id, state.ErrNotFound)
			}
			if err := s.engine.ToggleCompletion(cmd.Context(), id, current.IsCompleted); err != nil {
				return err
			}
			updated, _ := s.engine.Snapshot().Task(id)
			return output.WriteTask(cmd.OutOrStdout(), f, updated)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func rmCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			if err := s.engine.RemoveTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func showCmd(g *globals) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(g)
			if err != nil {
				return err
			}
			task, err := s.client.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.WriteTask(cmd.OutOrStdout(), f, task)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}
