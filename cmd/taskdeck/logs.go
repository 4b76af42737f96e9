package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/taskdeck/internal/app"
	"github.com/five82/taskdeck/internal/logtail"
)

func logsCmd(g *globals) *cobra.Command {
	var (
		lines int
		level string
		color bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the newest entries of the TUI log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var min slog.Level
			if err := min.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
				return fmt.Errorf("invalid level %q (want debug, info, warn or error)", level)
			}
			cfg, err := app.LoadConfig(g.options())
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "No log file yet; the TUI writes %s into %s\n",
					filepath.Base(cfg.LogFile), cfg.LogDir())
				return nil
			}
			entries, err := logtail.Read(cfg.LogFile, logtail.Options{MaxLines: lines, MinLevel: min})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No log entries in %s\n", cfg.LogFile)
				return nil
			}
			if color {
				entries = logtail.ColorizeLines(entries)
			}
			for _, line := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of entries to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "info", "minimum level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&color, "color", true, "highlight time and level fields")
	return cmd
}
