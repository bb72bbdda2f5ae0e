package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client provides GitHub REST operations with bearer-token auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a GitHub client, resolving the token from the gh CLI or
// the GITHUB_TOKEN/GH_TOKEN environment variables.
func NewClient(ctx context.Context) (*Client, error) {
	token, err := ResolveToken(ctx)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}, nil
}

// NewClientWithToken creates a client with an explicit token and base URL.
// Tests point baseURL at an httptest server.
func NewClientWithToken(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		token:      token,
	}
}

// ListOpenPRsByHead returns open PRs whose head branch matches the given
// bookmark name.
func (c *Client) ListOpenPRsByHead(ctx context.Context, owner, repo, head string) ([]PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls?state=open&head=%s",
		owner, repo, url.QueryEscape(owner+":"+head))

	var prs []PullRequest
	if err := c.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, fmt.Errorf("failed to list PRs for head %s: %w", head, err)
	}
	return prs, nil
}

// GetPR fetches a single PR by number. Unlike the list endpoint, the
// response carries the merged flag.
func (c *Client) GetPR(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &pr); err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", number, err)
	}
	return &pr, nil
}

// CreatePR opens a new pull request.
func (c *Client) CreatePR(ctx context.Context, owner, repo string, spec NewPullRequest) (*PullRequest, error) {
	var pr PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	if err := c.do(ctx, http.MethodPost, path, spec, &pr); err != nil {
		return nil, fmt.Errorf("failed to create PR for %s: %w", spec.Head, err)
	}
	return &pr, nil
}

// UpdatePRBase changes the base branch of an existing PR.
func (c *Client) UpdatePRBase(ctx context.Context, owner, repo string, number int, base string) (*PullRequest, error) {
	var pr PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)
	payload := map[string]string{"base": base}
	if err := c.do(ctx, http.MethodPatch, path, payload, &pr); err != nil {
		return nil, fmt.Errorf("failed to update base of PR #%d: %w", number, err)
	}
	return &pr, nil
}

// ListIssueComments returns the issue comments on a PR.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, fmt.Errorf("failed to list comments on PR #%d: %w", number, err)
	}
	return comments, nil
}

// CreateIssueComment posts a new comment on a PR and returns its id.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (int64, error) {
	var comment Comment
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, http.MethodPost, path, payload, &comment); err != nil {
		return 0, fmt.Errorf("failed to create comment on PR #%d: %w", number, err)
	}
	return comment.ID, nil
}

// UpdateIssueComment replaces the body of an existing comment.
func (c *Client) UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, http.MethodPatch, path, payload, nil); err != nil {
		return fmt.Errorf("failed to update comment %d: %w", commentID, err)
	}
	return nil
}

// apiError is GitHub's error response shape.
type apiError struct {
	Message string `json:"message"`
}

// do performs one API request, encoding the body as JSON and decoding the
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ghErr apiError
		if json.Unmarshal(data, &ghErr) == nil && ghErr.Message != "" {
			return fmt.Errorf("GitHub API error (%s): %s", resp.Status, ghErr.Message)
		}
		return fmt.Errorf("GitHub API error (%s)", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
