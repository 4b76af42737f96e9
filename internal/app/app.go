package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/taskdeck/internal/config"
	"github.com/five82/taskdeck/internal/prefs"
	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/syncengine"
	"github.com/five82/taskdeck/internal/todos"
	"github.com/five82/taskdeck/internal/ui"
)

// Options configure the taskdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/taskdeck/prefs.toml
	APIURL     string        // overrides api_url from the config file
	LogFile    string        // overrides log_file from the config file
	PollEvery  time.Duration // zero uses the config file's poll_interval
	Verbose    bool
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		cfg.LogFile = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	return cfg, nil
}

// NewEngine builds the HTTP client, an empty store and the engine over them.
func NewEngine(cfg config.Config, logger *slog.Logger) (*syncengine.Engine, *todos.Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client, err := todos.NewClient(cfg.APIURL,
		todos.WithTimeout(cfg.RequestTimeout),
		todos.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init task client: %w", err)
	}
	engine := syncengine.New(client, &state.Store{},
		syncengine.WithLogger(logger),
		syncengine.WithDefaultDescription(cfg.DefaultDescription),
	)
	return engine, client, nil
}

// Run boots the taskdeck TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := OpenLogFile(cfg.LogFile, opts.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	engine, client, err := NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "api_url", client.BaseURL(), "poll_interval", cfg.PollInterval)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The UI performs the initial load itself; the poller only keeps it fresh.
	StartPoller(ctx, engine, cfg.PollInterval, logger)

	uiOpts := ui.Options{
		Context:   ctx,
		Engine:    engine,
		APIURL:    client.BaseURL(),
		PollTick:  time.Second,
		ThemeName: userPrefs.Theme,
		Compact:   userPrefs.Compact,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	}
	return ui.Run(uiOpts)
}
