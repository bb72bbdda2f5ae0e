package gh

import "time"

// BranchRef identifies one side of a pull request.
type BranchRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PullRequest contains the GitHub PR fields jj-stack reads.
type PullRequest struct {
	Number   int        `json:"number"`
	HTMLURL  string     `json:"html_url"`
	Title    string     `json:"title"`
	State    string     `json:"state"` // "open" or "closed"
	Merged   bool       `json:"merged"`
	MergedAt *time.Time `json:"merged_at"`
	Base     BranchRef  `json:"base"`
	Head     BranchRef  `json:"head"`
}

// IsMerged reports whether the PR has been merged. List endpoints omit the
// merged flag, so merged_at is checked as well.
func (p *PullRequest) IsMerged() bool {
	return p.Merged || p.MergedAt != nil
}

// Comment is an issue comment on a pull request.
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// NewPullRequest is the payload for creating a PR.
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body,omitempty"`
}
