package jj

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PageSize is the number of commits fetched per jj log invocation when
// paging through a revision range.
const PageSize = 100

// Client provides jj operations for a repository, shelling out to the jj
// binary with machine-readable templates.
type Client struct {
	repoRoot string
}

// NewClient creates a jj client for the repository containing the current
// directory.
func NewClient() (*Client, error) {
	output, err := exec.Command("jj", "root").Output()
	if err != nil {
		return nil, fmt.Errorf("not inside a jj repository: %w", err)
	}
	return &Client{repoRoot: strings.TrimSpace(string(output))}, nil
}

// Root returns the root directory of the jj repository.
func (c *Client) Root() string {
	return c.repoRoot
}

// GetMyBookmarks returns all local bookmarks with their remote/sync status.
func (c *Client) GetMyBookmarks(ctx context.Context) ([]Bookmark, error) {
	output, err := c.execJJ(ctx,
		"bookmark", "list",
		"--all-remotes",
		"--template", bookmarkTemplate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	refs, err := parseBookmarkRefs(string(output))
	if err != nil {
		return nil, err
	}
	return mergeBookmarkRefs(refs), nil
}

// FindCommonAncestor returns the closest common ancestor of the bookmark and
// the trunk revision.
func (c *Client) FindCommonAncestor(ctx context.Context, bookmark string) (Commit, error) {
	revset := fmt.Sprintf("heads(::%s & ::trunk())", revsetQuote(bookmark))
	commits, err := c.logRevset(ctx, revset, 1)
	if err != nil {
		return Commit{}, fmt.Errorf("failed to find common ancestor of %s and trunk: %w", bookmark, err)
	}
	if len(commits) == 0 {
		return Commit{}, fmt.Errorf("bookmark %s has no common ancestor with trunk", bookmark)
	}
	return commits[0], nil
}

// GetChangesBetween returns commits that are ancestors of toCommitID but not
// of fromCommitID, newest first, up to PageSize per call. A non-empty cursor
// is the oldest commit id returned by the previous page; commits from the
// cursor upward are excluded from the result.
func (c *Client) GetChangesBetween(ctx context.Context, fromCommitID, toCommitID, cursor string) ([]Commit, error) {
	tip := toCommitID
	revset := fmt.Sprintf("::%s & ~::%s", tip, fromCommitID)
	if cursor != "" {
		revset = fmt.Sprintf("::%s & ~::%s & ~%s", cursor, fromCommitID, cursor)
	}

	commits, err := c.logRevset(ctx, revset, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get changes between %s and %s: %w", fromCommitID, toCommitID, err)
	}
	return commits, nil
}

// TrunkRemoteBookmarks returns the remote bookmark names present on the
// trunk revision, used to resolve the repository's default branch.
func (c *Client) TrunkRemoteBookmarks(ctx context.Context) ([]string, error) {
	commits, err := c.logRevset(ctx, "trunk()", 1)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trunk: %w", err)
	}
	if len(commits) == 0 {
		return nil, fmt.Errorf("trunk() resolved to no revision")
	}
	return commits[0].RemoteBookmarks, nil
}

// GetWorkingCopy returns the current working-copy commit.
func (c *Client) GetWorkingCopy(ctx context.Context) (Commit, error) {
	commits, err := c.logRevset(ctx, "@", 1)
	if err != nil {
		return Commit{}, fmt.Errorf("failed to resolve working copy: %w", err)
	}
	if len(commits) == 0 {
		return Commit{}, fmt.Errorf("working copy resolved to no revision")
	}
	return commits[0], nil
}

// GetGitRemoteList returns the configured git remotes.
func (c *Client) GetGitRemoteList(ctx context.Context) ([]Remote, error) {
	output, err := c.execJJ(ctx, "git", "remote", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list git remotes: %w", err)
	}

	var remotes []Remote
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		name, url, found := strings.Cut(line, " ")
		if !found {
			return nil, fmt.Errorf("malformed remote list line: %q", line)
		}
		remotes = append(remotes, Remote{Name: name, URL: url})
	}
	return remotes, nil
}

// PushBookmark pushes a single bookmark to the given remote, creating the
// remote bookmark if it does not exist yet.
func (c *Client) PushBookmark(ctx context.Context, name, remote string) error {
	_, err := c.execJJ(ctx,
		"git", "push",
		"--bookmark", name,
		"--remote", remote,
		"--allow-new",
	)
	if err != nil {
		return fmt.Errorf("failed to push bookmark %s to %s: %w", name, remote, err)
	}
	return nil
}

func (c *Client) logRevset(ctx context.Context, revset string, limit int) ([]Commit, error) {
	output, err := c.execJJ(ctx,
		"log",
		"--no-graph",
		"-r", revset,
		"-n", fmt.Sprintf("%d", limit),
		"--template", commitTemplate,
	)
	if err != nil {
		return nil, err
	}
	return parseCommits(string(output))
}

// execJJ executes a jj command in the repository and returns its output.
func (c *Client) execJJ(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string{"--no-pager", "--ignore-working-copy", "--repository", c.repoRoot}, args...)
	cmd := exec.CommandContext(ctx, "jj", fullArgs...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("jj error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute jj: %w", err)
	}
	return output, nil
}

// revsetQuote wraps a bookmark name in a quoted revset string literal so
// names containing operator characters resolve as symbols.
func revsetQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
