package main

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/gitscout/internal/adapter"
	"github.com/mmcdole/gitscout/internal/adapter/source"
	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/mmcdole/gitscout/internal/search"
	"github.com/mmcdole/gitscout/internal/store"
	"github.com/mmcdole/gitscout/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gitscout",
		Short: "Search GitHub users from the terminal",
		Long: `gitscout searches GitHub (or a LinkedIn-style endpoint) for users,
looks up each result's follower count and shows the results a page at a time.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.SetVersionTemplate("gitscout {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default "+adapter.ConfigFilePath()+")")
	flags.String("provider", "", "User provider: github or linkedin")
	flags.Int("page-size", 0, "Results per page")
	flags.Bool("auto", false, "Search while typing instead of on enter")
	flags.String("theme", "", "Color theme: light or dark")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newSearchCmd(opts),
		newCacheCmd(opts),
		newConfigCmd(opts),
		newSetupCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// flagKeys maps persistent flags to config keys
var flagKeys = map[string]string{
	"provider":  "provider",
	"page-size": "search.page_size",
	"auto":      "search.auto_fetch",
	"theme":     "ui.theme",
	"log-level": "logging.level",
}

// app holds what every command needs once config is loaded
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	closers []io.Closer
}

// newApp loads config (file, env, then flags) and sets up logging
func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	v := adapter.NewViper(opts.configFile)
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg, err := adapter.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{cfg: cfg}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, closer)
	}
	slog.SetDefault(logger)
	a.logger = logger

	return a, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// newClient builds the provider client, wrapped with the follower cache when enabled
func (a *app) newClient() (domain.UserSearchClient, error) {
	client, err := source.NewClient(a.cfg, "gitscout/"+Version, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", a.cfg.Provider, err)
	}

	if !a.cfg.Cache.Enabled {
		return client, nil
	}

	cache, err := store.NewFollowerStore(a.cfg.Cache.Dir)
	if err != nil {
		// Another gitscout may hold the db lock; keep going with a memory cache
		a.logger.Warn("follower cache unavailable, using memory", "dir", a.cfg.Cache.Dir, "error", err)
		cache, _ = store.NewFollowerStore("")
	}
	a.closers = append(a.closers, cache)

	return source.NewCachedClient(client, cache, a.cfg.Cache.TTL, a.logger), nil
}

func (a *app) newController() (*search.Controller, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	return search.NewController(client, search.Options{
		PageSize:       a.cfg.Search.PageSize,
		AutoFetch:      a.cfg.Search.AutoFetch,
		RequestTimeout: a.cfg.Search.RequestTimeout,
		MaxConcurrency: a.cfg.Search.MaxConcurrency,
	}, a.logger), nil
}

// Close releases caches and the log file, last opened first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting gitscout", "version", Version, "provider", a.cfg.Provider)

	ctrl, err := a.newController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	model := tui.NewModel(ctrl, adapter.NewBrowser(a.cfg.UI.Browser, a.logger), tui.Options{
		Provider: string(a.cfg.Provider),
		Debounce: a.cfg.Search.Debounce,
		Theme:    a.cfg.UI.Theme,
		Logger:   a.logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
