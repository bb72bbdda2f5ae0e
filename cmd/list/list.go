package list

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rob-berry-depop/jj-stack/internal/graph"
	"github.com/rob-berry-depop/jj-stack/internal/jj"
	"github.com/rob-berry-depop/jj-stack/internal/ui"
)

// Command lists the repository's bookmark stacks
type Command struct {
	JJ *jj.Client
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show how bookmarks stack on each other",
		Long: `List every stack of bookmarks in the repository, base to tip,
with each bookmark's sync state against its remote counterpart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	var err error
	c.JJ, err = jj.NewClient()
	if err != nil {
		return err
	}

	bookmarks, err := c.JJ.GetMyBookmarks(ctx)
	if err != nil {
		return err
	}

	g, err := graph.Build(ctx, c.JJ, bookmarks)
	if err != nil {
		return err
	}

	ui.Print(ui.RenderStacks(g))
	return nil
}
