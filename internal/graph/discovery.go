package graph

import (
	"context"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// discoveredSegment is one segment found during a single walk, before its
// base commit is known.
type discoveredSegment struct {
	bookmarks []jj.Bookmark // colocated bookmarks at the segment tip
	changes   []jj.Commit   // newest first
}

func (d discoveredSegment) name() string {
	return d.bookmarks[0].Name
}

func (d discoveredSegment) hasBookmark(name string) bool {
	for _, b := range d.bookmarks {
		if b.Name == name {
			return true
		}
	}
	return false
}

// walkResult is the outcome of walking one bookmark's history toward trunk.
// Segments are in discovery order, tip to base.
type walkResult struct {
	segments []discoveredSegment

	// baseBookmark is the primary name of the fully-collected bookmark the
	// walk terminated at, or empty if the walk reached trunk.
	baseBookmark string
	baseCommit   string
}

// discoverSegments pages backward from the bookmark group's tip commit to
// the common ancestor with trunk, splitting the walk into per-bookmark
// segments whenever it crosses another bookmark's commit. The walk stops
// early at any bookmark that has already been fully collected; the boundary
// commit is attributed to that bookmark, not to the segment being closed.
func (b *builder) discoverSegments(ctx context.Context, group []jj.Bookmark, ancestor jj.Commit) (walkResult, error) {
	tip := group[0]
	current := discoveredSegment{bookmarks: group}

	var result walkResult
	cursor := ""

	for {
		page, err := b.src.GetChangesBetween(ctx, ancestor.CommitID, tip.CommitID, cursor)
		if err != nil {
			return walkResult{}, err
		}

		for _, commit := range page {
			if commit.IsMerge() {
				return walkResult{}, &MergeCommitError{CommitID: commit.CommitID, Bookmark: current.name()}
			}

			boundary := b.boundaryBookmark(current, commit)
			if boundary == "" {
				current.changes = append(current.changes, commit)
				continue
			}

			if b.collected[boundary] {
				// Terminate: the boundary commit already belongs to the
				// collected bookmark's segment.
				result.segments = append(result.segments, current)
				result.baseBookmark = boundary
				result.baseCommit = commit.CommitID
				return result, nil
			}

			// Segment switch: the triggering commit opens the new segment.
			result.segments = append(result.segments, current)
			current = discoveredSegment{
				bookmarks: b.groupAt(commit),
				changes:   []jj.Commit{commit},
			}
		}

		if len(page) < jj.PageSize {
			break
		}
		cursor = page[len(page)-1].CommitID
	}

	result.segments = append(result.segments, current)
	return result, nil
}

// boundaryBookmark returns the primary name of a user bookmark on the commit
// that does not belong to the segment currently being walked, or empty.
func (b *builder) boundaryBookmark(current discoveredSegment, commit jj.Commit) string {
	for _, name := range commit.LocalBookmarks {
		primary, ok := b.primaryOf[name]
		if !ok {
			continue
		}
		if !current.hasBookmark(name) {
			return primary
		}
	}
	return ""
}

// groupAt returns the colocated user bookmarks on the commit.
func (b *builder) groupAt(commit jj.Commit) []jj.Bookmark {
	if group, ok := b.byCommit[commit.CommitID]; ok {
		return group
	}
	// The commit carries a local bookmark jj reported on the commit but not
	// in the bookmark list; synthesize a minimal entry so the walk can
	// continue.
	return []jj.Bookmark{{
		Name:     commit.LocalBookmarks[0],
		CommitID: commit.CommitID,
		ChangeID: commit.ChangeID,
	}}
}
