package submit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rob-berry-depop/jj-stack/internal/gh"
	"github.com/rob-berry-depop/jj-stack/internal/graph"
	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// JJClient defines the jj operations needed for submission.
type JJClient interface {
	TrunkRemoteBookmarks(ctx context.Context) ([]string, error)
	PushBookmark(ctx context.Context, name, remote string) error
}

// GithubClient defines the GitHub operations needed for submission.
type GithubClient interface {
	ListOpenPRsByHead(ctx context.Context, owner, repo, head string) ([]gh.PullRequest, error)
	GetPR(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error)
	CreatePR(ctx context.Context, owner, repo string, spec gh.NewPullRequest) (*gh.PullRequest, error)
	UpdatePRBase(ctx context.Context, owner, repo string, number int, base string) (*gh.PullRequest, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]gh.Comment, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (int64, error)
	UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error
}

// defaultBranchCandidates are checked against trunk's remote bookmarks in
// preference order.
var defaultBranchCandidates = []string{"main", "master", "trunk"}

// PlanItem is one bookmark's pending work, classified but not executed.
type PlanItem struct {
	Bookmark     jj.Bookmark
	Title        string // PR title, from the segment's newest commit
	ExpectedBase string // default branch at position 0, previous bookmark otherwise
	NeedsPush    bool   // bookmark missing from the remote or out of sync
	NeedsPR      bool   // no open PR with this bookmark as head
	NeedsBaseFix bool   // existing PR's base differs from ExpectedBase
	ExistingPR   *gh.PullRequest
}

// Plan is the computed submission work for one downstack chain, root to
// target. Plans are read-only; nothing is mutated until Execute.
type Plan struct {
	Target        string
	Owner         string
	Repo          string
	RemoteName    string
	DefaultBranch string
	Items         []PlanItem
}

// Planner computes submission plans.
type Planner struct {
	jj JJClient
	gh GithubClient
}

// NewPlanner creates a planner over the given collaborators.
func NewPlanner(jjClient JJClient, ghClient GithubClient) *Planner {
	return &Planner{jj: jjClient, gh: ghClient}
}

// Plan classifies every bookmark in the narrowed downstack chain. segments
// must contain exactly one bookmark per stack position, root first; a
// multi-bookmark segment reaching this point is an internal-consistency
// error since disambiguation happens before planning.
func (p *Planner) Plan(ctx context.Context, remote jj.Remote, cfg *Config, segments []graph.Segment) (*Plan, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("internal error: cannot plan an empty segment chain")
	}

	repo, err := resolveRepo(remote, cfg)
	if err != nil {
		return nil, err
	}

	defaultBranch, err := p.resolveDefaultBranch(ctx, remote.Name)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Owner:         repo.Owner,
		Repo:          repo.Repo,
		RemoteName:    remote.Name,
		DefaultBranch: defaultBranch,
	}

	for i, seg := range segments {
		if len(seg.Bookmarks) != 1 {
			return nil, fmt.Errorf(
				"internal error: segment at position %d has %d bookmarks after narrowing, expected exactly 1",
				i, len(seg.Bookmarks),
			)
		}
		bookmark := seg.Bookmarks[0]

		expectedBase := defaultBranch
		if i > 0 {
			expectedBase = segments[i-1].Bookmarks[0].Name
		}

		existingPR, err := p.findOpenPR(ctx, repo, bookmark.Name)
		if err != nil {
			return nil, err
		}

		item := PlanItem{
			Bookmark:     bookmark,
			Title:        seg.Title(),
			ExpectedBase: expectedBase,
			NeedsPush:    !bookmark.HasRemote || !bookmark.IsSynced,
			NeedsPR:      existingPR == nil,
			ExistingPR:   existingPR,
		}
		if existingPR != nil && existingPR.Base.Ref != expectedBase {
			item.NeedsBaseFix = true
		}
		plan.Items = append(plan.Items, item)
	}

	plan.Target = plan.Items[len(plan.Items)-1].Bookmark.Name
	return plan, nil
}

func resolveRepo(remote jj.Remote, cfg *Config) (RepoInfo, error) {
	if cfg != nil && cfg.Owner != "" && cfg.Repo != "" {
		return RepoInfo{Owner: cfg.Owner, Repo: cfg.Repo}, nil
	}
	return ParseGitHubRemote(remote.URL)
}

// resolveDefaultBranch inspects trunk's remote bookmarks for a known
// default-branch name, preferring main over master over trunk.
func (p *Planner) resolveDefaultBranch(ctx context.Context, remoteName string) (string, error) {
	remoteBookmarks, err := p.jj.TrunkRemoteBookmarks(ctx)
	if err != nil {
		return "", err
	}

	present := make(map[string]bool, len(remoteBookmarks))
	for _, rb := range remoteBookmarks {
		name, remote, found := strings.Cut(rb, "@")
		if found && remoteName != "" && remote != remoteName {
			continue
		}
		present[name] = true
	}

	for _, candidate := range defaultBranchCandidates {
		if present[candidate] {
			return candidate, nil
		}
	}
	return "", fmt.Errorf(
		"no default branch found: trunk has no remote bookmark named %s",
		strings.Join(defaultBranchCandidates, ", "),
	)
}

func (p *Planner) findOpenPR(ctx context.Context, repo RepoInfo, head string) (*gh.PullRequest, error) {
	prs, err := p.gh.ListOpenPRsByHead(ctx, repo.Owner, repo.Repo, head)
	if err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}
	pr := prs[0]
	return &pr, nil
}
