package graph

import "fmt"

// MergeCommitError aborts graph construction: the stacking model assumes a
// single linear chain per segment, so a merge commit anywhere in a walked
// range makes the history ambiguous.
type MergeCommitError struct {
	CommitID string
	Bookmark string
}

func (e *MergeCommitError) Error() string {
	return fmt.Sprintf(
		"commit %s reached while walking bookmark %s has multiple parents; merge commits are not supported - split the merge or rebase the bookmark onto a linear history",
		e.CommitID, e.Bookmark,
	)
}

// BookmarkNotFoundError reports a lookup of a bookmark the graph does not
// contain.
type BookmarkNotFoundError struct {
	Name string
}

func (e *BookmarkNotFoundError) Error() string {
	return fmt.Sprintf("bookmark %s not found in change graph", e.Name)
}
