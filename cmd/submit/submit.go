package submit

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rob-berry-depop/jj-stack/internal/gh"
	"github.com/rob-berry-depop/jj-stack/internal/graph"
	"github.com/rob-berry-depop/jj-stack/internal/jj"
	"github.com/rob-berry-depop/jj-stack/internal/submit"
	"github.com/rob-berry-depop/jj-stack/internal/ui"
)

// Command submits a bookmark's stack to GitHub
type Command struct {
	// Flags
	DryRun bool   // Show the plan without pushing or touching GitHub PRs
	Remote string // Submit to this remote instead of resolving one

	JJ *jj.Client
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "submit [bookmark]",
		Short: "Push a stack and sync its GitHub PRs",
		Long: `Submit the stack ending at the given bookmark to GitHub.

Every bookmark from the stack's root up to the target is pushed if it is
out of date, gets a PR created if none is open for it, and has its PR's
base branch corrected so each PR targets the bookmark below it. The
bottom PR targets the repository's default branch.

With no argument, the bookmark on the working-copy commit is submitted.

Example:
  jj-stack submit              # Submit the working-copy bookmark's stack
  jj-stack submit profile      # Submit the stack ending at 'profile'
  jj-stack submit --dry-run    # Show what would happen`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			return c.Run(cmd.Context(), target)
		},
	}

	cmd.Flags().BoolVar(&c.DryRun, "dry-run", false, "Show what would happen without pushing")
	cmd.Flags().StringVar(&c.Remote, "remote", "", "Git remote to submit to")

	parent.AddCommand(cmd)
}

// Run executes the command
func (c *Command) Run(ctx context.Context, target string) error {
	var err error
	c.JJ, err = jj.NewClient()
	if err != nil {
		return err
	}

	bookmarks, err := c.JJ.GetMyBookmarks(ctx)
	if err != nil {
		return err
	}
	if len(bookmarks) == 0 {
		ui.Info("No bookmarks to submit. Create one with: jj bookmark create <name>")
		return nil
	}

	g, err := graph.Build(ctx, c.JJ, bookmarks)
	if err != nil {
		return err
	}

	if target == "" {
		target, err = c.resolveWorkingCopyTarget(ctx, g)
		if err != nil {
			return err
		}
	}

	segments, err := g.DownstackSegments(target)
	if err != nil {
		return err
	}

	narrowed, err := submit.NarrowSegments(segments, func(seg graph.Segment) (jj.Bookmark, error) {
		prompt := fmt.Sprintf("Multiple bookmarks point at commit %s; pick one to submit", ui.ShortID(seg.Bookmarks[0].CommitID))
		return ui.SelectBookmark(prompt, seg.Bookmarks)
	})
	if err != nil {
		return err
	}

	cfg, err := submit.LoadConfig(c.JJ.Root())
	if err != nil {
		return err
	}

	remote, err := c.resolveRemote(ctx, cfg)
	if err != nil {
		return err
	}

	ghClient, err := gh.NewClient(ctx)
	if err != nil {
		return err
	}

	plan, err := submit.NewPlanner(c.JJ, ghClient).Plan(ctx, remote, cfg, narrowed)
	if err != nil {
		return err
	}

	if c.DryRun {
		ui.Info("Dry run mode - no changes will be made")
		ui.Print("")
		renderPlan(plan)
		return nil
	}

	result := submit.NewExecutor(c.JJ, ghClient).Execute(ctx, plan)
	renderResult(plan, result)
	if !result.Success {
		return fmt.Errorf("submission completed with errors")
	}
	return nil
}

// resolveWorkingCopyTarget picks the submission target from the bookmarks on
// the working-copy commit or its closest bookmarked ancestor.
func (c *Command) resolveWorkingCopyTarget(ctx context.Context, g *graph.ChangeGraph) (string, error) {
	wc, err := c.JJ.GetWorkingCopy(ctx)
	if err != nil {
		return "", err
	}

	var candidates []jj.Bookmark
	for _, name := range wc.LocalBookmarks {
		if b, ok := g.Bookmark(name); ok {
			candidates = append(candidates, b)
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("the working copy has no bookmark; name one with 'jj-stack submit <bookmark>'")
	case 1:
		return candidates[0].Name, nil
	default:
		chosen, err := ui.SelectBookmark("The working copy has several bookmarks; pick the one to submit", candidates)
		if err != nil {
			return "", err
		}
		return chosen.Name, nil
	}
}

// resolveRemote picks the remote to submit to: the --remote flag, then the
// configured remote, then the sole GitHub remote, and finally an interactive
// choice when several GitHub remotes exist.
func (c *Command) resolveRemote(ctx context.Context, cfg *submit.Config) (jj.Remote, error) {
	remotes, err := c.JJ.GetGitRemoteList(ctx)
	if err != nil {
		return jj.Remote{}, err
	}
	if len(remotes) == 0 {
		return jj.Remote{}, fmt.Errorf("the repository has no git remotes")
	}

	want := c.Remote
	if want == "" {
		want = cfg.Remote
	}
	if want != "" {
		for _, r := range remotes {
			if r.Name == want {
				return r, nil
			}
		}
		return jj.Remote{}, fmt.Errorf("remote %s is not configured in this repository", want)
	}

	var github []jj.Remote
	for _, r := range remotes {
		if _, err := submit.ParseGitHubRemote(r.URL); err == nil {
			github = append(github, r)
		}
	}
	switch len(github) {
	case 0:
		// Config may still carry an explicit owner/repo for a non-GitHub URL
		// scheme; let the planner decide.
		if len(remotes) == 1 {
			return remotes[0], nil
		}
		return jj.Remote{}, fmt.Errorf("no GitHub remote found; set one with 'jj-stack config'")
	case 1:
		return github[0], nil
	default:
		return ui.SelectRemote(github)
	}
}

func renderPlan(plan *submit.Plan) {
	ui.Header(fmt.Sprintf("Submitting %s to %s/%s (%d bookmarks)",
		plan.Target, plan.Owner, plan.Repo, len(plan.Items)))
	ui.Print("")

	for i, item := range plan.Items {
		var actions []string
		if item.NeedsPush {
			actions = append(actions, "push")
		}
		if item.NeedsPR {
			actions = append(actions, "create PR")
		}
		if item.NeedsBaseFix {
			actions = append(actions, fmt.Sprintf("retarget PR #%d onto %s", item.ExistingPR.Number, item.ExpectedBase))
		}
		if len(actions) == 0 {
			actions = append(actions, "up to date")
		}

		ui.Printf("%d. %s → %s  %s\n", i+1,
			ui.Bold(item.Bookmark.Name), item.ExpectedBase,
			ui.Dim(strings.Join(actions, ", ")))
	}
}

func renderResult(plan *submit.Plan, result *submit.Result) {
	for _, name := range result.PushedBookmarks {
		ui.Successf("Pushed %s", name)
	}
	for _, number := range result.UpdatedPRs {
		ui.Successf("Retargeted PR #%d", number)
	}
	for _, item := range plan.Items {
		if pr, ok := result.CreatedPRs[item.Bookmark.Name]; ok {
			ui.Successf("Created PR #%d for %s: %s", pr.Number, item.Bookmark.Name, pr.HTMLURL)
		}
	}

	for _, opErr := range result.Errors {
		ui.Errorf("%s: %v", opErr.Context, opErr.Err)
	}

	ui.Print("")
	if result.Success {
		ui.Successf("Stack %s is up to date on %s/%s", plan.Target, plan.Owner, plan.Repo)
	} else {
		ui.Warning("Some operations failed; rerun submit once the cause is fixed.")
	}
}
