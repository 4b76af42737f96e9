package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/taskdeck/internal/app"
)

var Version = "dev"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	prefsPath  string
	apiURL     string
	logFile    string
	poll       time.Duration
	verbose    bool
}

func (g *globals) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		APIURL:     g.apiURL,
		LogFile:    g.logFile,
		PollEvery:  g.poll,
		Verbose:    g.verbose,
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "taskdeck: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Terminal client for a remote todo list",
		Long:          "Run without a subcommand to open the interactive task list.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), g.options())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default ~/.config/taskdeck/config.toml)")
	flags.StringVar(&g.apiURL, "api-url", "", "backend base URL (overrides api_url)")
	flags.StringVar(&g.logFile, "log-file", "", "log file for the TUI (overrides log_file)")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&g.prefsPath, "prefs", "", "preferences file (default ~/.config/taskdeck/prefs.toml)")
	rootCmd.Flags().DurationVar(&g.poll, "poll", 0, "background refresh interval (overrides poll_interval)")

	rootCmd.AddCommand(listCmd(g))
	rootCmd.AddCommand(addCmd(g))
	rootCmd.AddCommand(toggleCmd(g))
	rootCmd.AddCommand(rmCmd(g))
	rootCmd.AddCommand(showCmd(g))
	rootCmd.AddCommand(serveCmd(g))
	rootCmd.AddCommand(logsCmd(g))

	return rootCmd
}
