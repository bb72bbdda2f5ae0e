package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	configcmd "github.com/rob-berry-depop/jj-stack/cmd/config"
	"github.com/rob-berry-depop/jj-stack/cmd/list"
	"github.com/rob-berry-depop/jj-stack/cmd/submit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jj-stack",
	Short: "Stacked GitHub PRs for Jujutsu repositories",
	Long: `jj-stack turns a jj repository's bookmarks into stacks of GitHub
pull requests.

It discovers how your bookmarks stack on top of each other, pushes the
ones that are out of date, and creates or retargets one PR per bookmark
so every PR's base branch is the bookmark below it in the stack.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	// Register all commands
	commands := []Command{
		&submit.Command{},
		&list.Command{},
		&configcmd.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
