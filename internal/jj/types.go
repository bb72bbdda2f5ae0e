package jj

import "time"

// Commit is an immutable snapshot of one revision as reported by jj.
type Commit struct {
	CommitID        string    // short commit hash
	ChangeID        string    // stable change identity across rewrites
	AuthorName      string
	AuthorEmail     string
	Description     string    // first line of the description
	Parents         []string  // parent commit ids
	LocalBookmarks  []string  // local bookmark names on this commit
	RemoteBookmarks []string  // remote bookmark names (name@remote)
	IsWorkingCopy   bool      // true for the current working-copy commit
	AuthoredAt      time.Time
	CommittedAt     time.Time
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// HasLocalBookmark reports whether the commit carries the given local bookmark.
func (c Commit) HasLocalBookmark(name string) bool {
	for _, b := range c.LocalBookmarks {
		if b == name {
			return true
		}
	}
	return false
}

// Bookmark is a named pointer to a commit. Unlike a git branch it does not
// advance when new commits are created on top of it.
type Bookmark struct {
	Name      string
	CommitID  string
	ChangeID  string
	HasRemote bool // bookmark exists on the tracked remote
	IsSynced  bool // local commit id matches the remote commit id
}

// Remote is one configured git remote of the repository.
type Remote struct {
	Name string
	URL  string
}
