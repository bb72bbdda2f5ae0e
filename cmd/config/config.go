package config

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
	"github.com/rob-berry-depop/jj-stack/internal/submit"
	"github.com/rob-berry-depop/jj-stack/internal/ui"
)

// Command reads and writes the per-repository configuration
type Command struct {
	// Flags
	Owner  string
	Repo   string
	Remote string
	Clear  bool

	JJ *jj.Client
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or set repository overrides",
		Long: `Show or set the repository's jj-stack overrides.

Without flags, prints the current configuration. The owner and repo
overrides take precedence over values parsed from the remote URL, and
the remote override skips remote selection on submit.

Example:
  jj-stack config                              # Show current config
  jj-stack config --owner acme --repo widgets  # Pin the GitHub repository
  jj-stack config --remote origin              # Always submit to origin
  jj-stack config --clear                      # Drop all overrides`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&c.Owner, "owner", "", "GitHub repository owner override")
	cmd.Flags().StringVar(&c.Repo, "repo", "", "GitHub repository name override")
	cmd.Flags().StringVar(&c.Remote, "remote", "", "Git remote to submit to")
	cmd.Flags().BoolVar(&c.Clear, "clear", false, "Remove all overrides")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	var err error
	c.JJ, err = jj.NewClient()
	if err != nil {
		return err
	}

	cfg, err := submit.LoadConfig(c.JJ.Root())
	if err != nil {
		return err
	}

	if c.Clear {
		if err := submit.SaveConfig(c.JJ.Root(), &submit.Config{}); err != nil {
			return err
		}
		ui.Success("Cleared all overrides")
		return nil
	}

	changed := false
	if c.Owner != "" {
		cfg.Owner = c.Owner
		changed = true
	}
	if c.Repo != "" {
		cfg.Repo = c.Repo
		changed = true
	}
	if c.Remote != "" {
		cfg.Remote = c.Remote
		changed = true
	}

	if changed {
		if err := submit.SaveConfig(c.JJ.Root(), cfg); err != nil {
			return err
		}
		ui.Success("Configuration saved")
		return nil
	}

	render(cfg)
	return nil
}

func render(cfg *submit.Config) {
	if cfg.Owner == "" && cfg.Repo == "" && cfg.Remote == "" {
		ui.Print(ui.Dim("No overrides set; owner and repo come from the remote URL."))
		return
	}
	ui.Printf("owner:  %s\n", valueOrDefault(cfg.Owner))
	ui.Printf("repo:   %s\n", valueOrDefault(cfg.Repo))
	ui.Printf("remote: %s\n", valueOrDefault(cfg.Remote))
}

func valueOrDefault(v string) string {
	if v == "" {
		return ui.Dim("(from remote)")
	}
	return ui.Bold(v)
}
