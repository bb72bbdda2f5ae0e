package graph

import (
	"context"
	"sort"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// TrunkBase marks a segment that is based directly on the trunk revision
// rather than on another bookmark's tip.
const TrunkBase = "trunk()"

// CommitSource supplies commit history for graph construction. Implemented
// by jj.Client; tests substitute an in-memory source.
type CommitSource interface {
	// FindCommonAncestor returns the closest common ancestor of the
	// bookmark and trunk.
	FindCommonAncestor(ctx context.Context, bookmark string) (jj.Commit, error)

	// GetChangesBetween pages backward through commits that are ancestors
	// of toCommitID but not of fromCommitID, newest first, jj.PageSize per
	// call. cursor is the oldest commit id from the previous page, or empty
	// for the first page.
	GetChangesBetween(ctx context.Context, fromCommitID, toCommitID, cursor string) ([]jj.Commit, error)
}

// Segment is the slice of history introduced by one bookmark beyond its
// stacking parent (or beyond trunk for a stack root).
type Segment struct {
	// Bookmarks pointing at this segment's tip commit, ordered by name.
	// More than one entry means the segment needs disambiguation before
	// submission.
	Bookmarks []jj.Bookmark

	// Changes are the commits attributed to this segment, newest first.
	// Empty for a bookmark that shares its commit with its parent.
	Changes []jj.Commit

	// BaseCommit is the commit id of the stacking parent's tip, or
	// TrunkBase for a root segment.
	BaseCommit string
}

// Name returns the segment's primary bookmark name.
func (s Segment) Name() string {
	return s.Bookmarks[0].Name
}

// IsMultiBookmark reports whether several bookmarks share this segment's
// tip commit.
func (s Segment) IsMultiBookmark() bool {
	return len(s.Bookmarks) > 1
}

// Title returns the first line of the segment's newest commit, falling back
// to the bookmark name for a segment with no changes of its own.
func (s Segment) Title() string {
	if len(s.Changes) > 0 {
		return s.Changes[0].Description
	}
	return s.Name()
}

// BranchStack is an ordered chain of segments from a stack root to one leaf
// bookmark, base to tip.
type BranchStack struct {
	Segments []Segment
}

// Leaf returns the stack's tip segment.
func (b BranchStack) Leaf() Segment {
	return b.Segments[len(b.Segments)-1]
}

// ChangeGraph is the stacking structure of all user bookmarks, rebuilt from
// scratch on every invocation.
type ChangeGraph struct {
	// Stacks holds one BranchStack per leaf bookmark, base to tip. Stacks
	// that diverge from a shared ancestor repeat the shared segments.
	Stacks []BranchStack

	// Roots and Leaves are primary bookmark names, sorted.
	Roots  []string
	Leaves []string

	bookmarks map[string]jj.Bookmark   // every bookmark by its own name
	primaryOf map[string]string        // bookmark name -> primary group name
	groups    map[string][]jj.Bookmark // primary name -> colocated bookmarks
	changes   map[string][]jj.Commit   // primary name -> segment changes
	parents   map[string]string        // child primary -> parent primary
}

// Bookmark returns the bookmark with the given name.
func (g *ChangeGraph) Bookmark(name string) (jj.Bookmark, bool) {
	b, ok := g.bookmarks[name]
	return b, ok
}

// BookmarkNames returns every known bookmark name, sorted.
func (g *ChangeGraph) BookmarkNames() []string {
	names := make([]string, 0, len(g.bookmarks))
	for name := range g.bookmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parent returns the stacking parent of the given bookmark's segment, if it
// has one.
func (g *ChangeGraph) Parent(name string) (string, bool) {
	primary, ok := g.primaryOf[name]
	if !ok {
		return "", false
	}
	parent, ok := g.parents[primary]
	return parent, ok
}

// SegmentFor returns the segment containing the given bookmark, with its
// base commit resolved.
func (g *ChangeGraph) SegmentFor(name string) (Segment, bool) {
	primary, ok := g.primaryOf[name]
	if !ok {
		return Segment{}, false
	}
	return g.segmentOf(primary), true
}

// DownstackSegments returns the ordered segments from the target's stack
// root to the target itself, base to tip.
func (g *ChangeGraph) DownstackSegments(target string) ([]Segment, error) {
	primary, ok := g.primaryOf[target]
	if !ok {
		return nil, &BookmarkNotFoundError{Name: target}
	}

	path := []string{primary}
	for {
		parent, ok := g.parents[path[0]]
		if !ok {
			break
		}
		path = append([]string{parent}, path...)
	}

	segments := make([]Segment, len(path))
	for i, name := range path {
		segments[i] = g.segmentOf(name)
	}
	return segments, nil
}

func (g *ChangeGraph) segmentOf(primary string) Segment {
	seg := Segment{
		Bookmarks:  g.groups[primary],
		Changes:    g.changes[primary],
		BaseCommit: TrunkBase,
	}
	if parent, ok := g.parents[primary]; ok {
		seg.BaseCommit = g.bookmarks[parent].CommitID
	}
	return seg
}
