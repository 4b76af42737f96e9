package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/taskdeck/internal/app"
	"github.com/five82/taskdeck/internal/backend"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr   string
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference todo backend",
		Long: `Run a todo backend implementing the REST contract taskdeck talks to.

Examples:
  taskdeck serve
  taskdeck serve --addr :8000 --db ~/todos.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.NewLogger(os.Stderr, slog.LevelInfo, g.verbose)

			var repo backend.Repository = backend.NewMemoryRepository()
			if dbPath != "" {
				sqlite, err := backend.OpenSQLite(cmd.Context(), dbPath)
				if err != nil {
					return err
				}
				repo = sqlite
				logger.Info("using sqlite", "path", dbPath)
			}
			defer repo.Close()

			return backend.ListenAndServe(cmd.Context(), addr, backend.NewRouter(repo, logger), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (default in-memory)")
	return cmd
}
