package submit

import (
	"context"
	"fmt"

	"github.com/rob-berry-depop/jj-stack/internal/gh"
)

// OperationError is one recorded failure with enough context to identify
// the operation that failed.
type OperationError struct {
	Context string
	Err     error
}

func (e OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// Result aggregates the outcome of executing a plan. Success is false when
// any push or PR operation failed; stack-comment failures are recorded in
// Errors but do not flip Success since they do not affect PR correctness.
type Result struct {
	Success         bool
	PushedBookmarks []string
	CreatedPRs      map[string]*gh.PullRequest // bookmark name -> created PR
	UpdatedPRs      []int                      // PR numbers whose base was corrected
	Errors          []OperationError
}

func (r *Result) recordError(context string, err error, fatal bool) {
	r.Errors = append(r.Errors, OperationError{Context: context, Err: err})
	if fatal {
		r.Success = false
	}
}

// Executor runs submission plans against jj and GitHub.
type Executor struct {
	jj JJClient
	gh GithubClient
}

// NewExecutor creates an executor over the given collaborators.
func NewExecutor(jjClient JJClient, ghClient GithubClient) *Executor {
	return &Executor{jj: jjClient, gh: ghClient}
}

// Execute runs the plan in three strictly ordered phases: push every
// bookmark that needs it, correct mismatched PR bases, then create missing
// PRs base to tip so each new PR's base branch already exists on the
// remote. A failed operation is recorded and execution moves on to the next
// bookmark; one PR's transient failure must not block its siblings. Stack
// comments are synced last.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *Result {
	result := &Result{
		Success:    true,
		CreatedPRs: make(map[string]*gh.PullRequest),
	}

	prByBookmark := make(map[string]*gh.PullRequest, len(plan.Items))
	for _, item := range plan.Items {
		if item.ExistingPR != nil {
			prByBookmark[item.Bookmark.Name] = item.ExistingPR
		}
	}

	for _, item := range plan.Items {
		if !item.NeedsPush {
			continue
		}
		name := item.Bookmark.Name
		if err := e.jj.PushBookmark(ctx, name, plan.RemoteName); err != nil {
			result.recordError(fmt.Sprintf("pushing bookmark %s", name), err, true)
			continue
		}
		result.PushedBookmarks = append(result.PushedBookmarks, name)
	}

	for _, item := range plan.Items {
		if !item.NeedsBaseFix || item.ExistingPR == nil {
			continue
		}
		name := item.Bookmark.Name
		pr, err := e.gh.UpdatePRBase(ctx, plan.Owner, plan.Repo, item.ExistingPR.Number, item.ExpectedBase)
		if err != nil {
			result.recordError(fmt.Sprintf("updating base of PR for %s", name), err, true)
			continue
		}
		result.UpdatedPRs = append(result.UpdatedPRs, pr.Number)
		prByBookmark[name] = pr
	}

	for _, item := range plan.Items {
		if !item.NeedsPR {
			continue
		}
		name := item.Bookmark.Name
		pr, err := e.gh.CreatePR(ctx, plan.Owner, plan.Repo, gh.NewPullRequest{
			Title: item.Title,
			Head:  name,
			Base:  item.ExpectedBase,
		})
		if err != nil {
			result.recordError(fmt.Sprintf("creating PR for %s", name), err, true)
			continue
		}
		result.CreatedPRs[name] = pr
		prByBookmark[name] = pr
	}

	e.syncStackComments(ctx, plan, prByBookmark, result)
	return result
}

// syncStackComments writes the stack manifest comment to every PR in the
// submitted chain, retaining already-merged ancestor entries recovered from
// the root PR's previous comment.
func (e *Executor) syncStackComments(ctx context.Context, plan *Plan, prByBookmark map[string]*gh.PullRequest, result *Result) {
	manifest := Manifest{Version: manifestVersion}
	for _, item := range plan.Items {
		pr, ok := prByBookmark[item.Bookmark.Name]
		if !ok {
			// PR creation failed for this bookmark; it cannot appear in the
			// manifest until a later submission succeeds.
			continue
		}
		manifest.Stack = append(manifest.Stack, ManifestEntry{
			BookmarkName: item.Bookmark.Name,
			PRURL:        pr.HTMLURL,
			PRNumber:     pr.Number,
		})
	}
	if len(manifest.Stack) == 0 {
		return
	}

	ancestors, err := e.recoverMergedAncestors(ctx, plan, manifest.Stack[0])
	if err != nil {
		result.recordError("recovering merged stack ancestors", err, false)
	}
	manifest.Stack = append(ancestors, manifest.Stack...)

	for _, entry := range manifest.Stack {
		body, err := renderStackComment(manifest, entry.PRNumber)
		if err != nil {
			result.recordError(fmt.Sprintf("rendering stack comment for PR #%d", entry.PRNumber), err, false)
			continue
		}
		if err := e.writeStackComment(ctx, plan, entry.PRNumber, body); err != nil {
			result.recordError(fmt.Sprintf("updating stack comment on PR #%d", entry.PRNumber), err, false)
		}
	}
}

// recoverMergedAncestors reads the root PR's existing stack comment and
// returns the ancestor entries that preceded the root in a previous
// submission, but only if the immediate parent's PR has since merged. A
// fresh manifest is started otherwise. Only the immediate parent's state is
// checked; chains with several since-merged ancestors keep whatever the
// previous comment recorded.
func (e *Executor) recoverMergedAncestors(ctx context.Context, plan *Plan, root ManifestEntry) ([]ManifestEntry, error) {
	comments, err := e.gh.ListIssueComments(ctx, plan.Owner, plan.Repo, root.PRNumber)
	if err != nil {
		return nil, err
	}

	var previous Manifest
	found := false
	for _, comment := range comments {
		if m, ok := decodeManifest(comment.Body); ok {
			previous = m
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	rootIndex := -1
	for i, entry := range previous.Stack {
		if entry.BookmarkName == root.BookmarkName {
			rootIndex = i
			break
		}
	}
	if rootIndex <= 0 {
		return nil, nil
	}

	ancestors := previous.Stack[:rootIndex]
	parent := ancestors[len(ancestors)-1]

	parentPR, err := e.gh.GetPR(ctx, plan.Owner, plan.Repo, parent.PRNumber)
	if err != nil {
		return nil, err
	}
	if !parentPR.IsMerged() {
		return nil, nil
	}
	return ancestors, nil
}

// writeStackComment updates the PR's existing managed comment, or creates
// one if none exists yet.
func (e *Executor) writeStackComment(ctx context.Context, plan *Plan, prNumber int, body string) error {
	comments, err := e.gh.ListIssueComments(ctx, plan.Owner, plan.Repo, prNumber)
	if err != nil {
		return err
	}

	for _, comment := range comments {
		if isStackComment(comment.Body) {
			return e.gh.UpdateIssueComment(ctx, plan.Owner, plan.Repo, comment.ID, body)
		}
	}

	_, err = e.gh.CreateIssueComment(ctx, plan.Owner, plan.Repo, prNumber, body)
	return err
}
