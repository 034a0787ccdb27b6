package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/gitscout/internal/adapter"
	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/mmcdole/gitscout/internal/search"
	"github.com/mmcdole/gitscout/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var page int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one search and print a page of results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("page must be at least 1, got %d", page)
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl, err := a.newController()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			out := ctrl.Fetch(cmd.Context(), strings.Join(args, " "))
			if out.Err != nil {
				return fmt.Errorf("search failed: %w", out.Err)
			}

			for i := 1; i < page; i++ {
				if !ctrl.NextPage() {
					return fmt.Errorf("page %d is past the last page (%d)", page, i)
				}
			}

			v := ctrl.View()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			writeTable(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// searchPage is the JSON shape printed by search --json
type searchPage struct {
	Query    string              `json:"query"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int                 `json:"total"`
	HasNext  bool                `json:"has_next"`
	Users    []domain.UserRecord `json:"users"`
}

func writeJSON(w io.Writer, v search.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchPage{
		Query:    v.Query,
		Page:     v.CurrentPage,
		PageSize: v.PageSize,
		Total:    v.Total,
		HasNext:  v.CanGoNext,
		Users:    v.PageSlice,
	})
}

func writeTable(w io.Writer, v search.View) {
	if len(v.PageSlice) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "LOGIN", "FOLLOWERS", "PROFILE")
	for i, u := range v.PageSlice {
		t.Row(strconv.Itoa(v.Offset+i+1), u.Login, strconv.Itoa(u.Followers), u.HTMLURL)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Page %d · %d users\n", v.CurrentPage, v.Total)
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the follower count cache",
	}

	var purge bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all cached follower counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if purge {
				if err := adapter.ClearCache(a.cfg.Cache.Dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", a.cfg.Cache.Dir)
				return nil
			}

			s, err := store.NewFollowerStore(a.cfg.Cache.Dir)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer s.Close()

			if err := s.InvalidateAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			a.logger.Info("follower cache cleared", "dir", a.cfg.Cache.Dir)
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&purge, "purge", false, "Delete the whole cache directory")

	cmd.AddCommand(clearCmd)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := opts.configFile
			if path == "" {
				path = adapter.ConfigFilePath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	})
	return cmd
}

func newSetupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Choose a provider and store a GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			return runSetup(cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg, opts.configFile)
		},
	}
}

// runSetup prompts for provider and token, then saves cfg to path
func runSetup(in io.Reader, out io.Writer, cfg *adapter.Config, path string) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to gitscout!")
	fmt.Fprintln(out)

	for {
		fmt.Fprintf(out, "Provider [github/linkedin] (%s): ", cfg.Provider)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "" {
			break
		}
		if choice == string(domain.ProviderGitHub) || choice == string(domain.ProviderLinkedIn) {
			cfg.Provider = domain.Provider(choice)
			break
		}
		fmt.Fprintln(out, "Unknown provider. Please try again.")
		if err == io.EOF {
			return fmt.Errorf("no provider chosen")
		}
	}

	if cfg.Provider == domain.ProviderGitHub {
		fmt.Fprint(out, "GitHub token (optional, raises rate limits): ")
		token, err := readSecret(in, reader)
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			cfg.GitHub.Token = token
		}
	}

	if err := adapter.SaveConfig(cfg, path); err != nil {
		return err
	}
	if path == "" {
		path = adapter.ConfigFilePath()
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Configuration saved to %s\n", path)
	return nil
}

// readSecret reads a line without echo when in is a terminal
func readSecret(in io.Reader, buffered *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return strings.TrimSpace(string(b)), err
	}
	line, err := buffered.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitscout %s\n", Version)
		},
	}
}
