package graph

import (
	"context"
	"sort"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// Build constructs the change graph for the given user bookmarks. Each
// bookmark's history is walked toward trunk at most once: a bookmark whose
// segment has been collected by an earlier walk only ever appears as a
// termination boundary for later walks, so total commit fetches are bounded
// by the number of unique commits across all stacks.
//
// Any error leaves no partial graph behind; zero bookmarks yields an empty
// graph.
func Build(ctx context.Context, src CommitSource, bookmarks []jj.Bookmark) (*ChangeGraph, error) {
	b := newBuilder(src, bookmarks)

	for _, primary := range b.primaries() {
		if b.collected[primary] {
			continue
		}
		group := b.byCommit[b.bookmarks[primary].CommitID]

		ancestor, err := src.FindCommonAncestor(ctx, primary)
		if err != nil {
			return nil, err
		}

		result, err := b.discoverSegments(ctx, group, ancestor)
		if err != nil {
			return nil, err
		}
		b.record(result)
	}

	return b.finish(), nil
}

type builder struct {
	src CommitSource

	bookmarks map[string]jj.Bookmark   // every bookmark by its own name
	primaryOf map[string]string        // bookmark name -> primary group name
	byCommit  map[string][]jj.Bookmark // commit id -> colocated bookmarks, sorted by name

	collected map[string]bool        // primary names whose segment is final
	changes   map[string][]jj.Commit // primary name -> segment changes
	parents   map[string]string      // child primary -> parent primary
	roots     map[string]bool        // primary names based on trunk
}

func newBuilder(src CommitSource, bookmarks []jj.Bookmark) *builder {
	b := &builder{
		src:       src,
		bookmarks: make(map[string]jj.Bookmark, len(bookmarks)),
		primaryOf: make(map[string]string, len(bookmarks)),
		byCommit:  make(map[string][]jj.Bookmark),
		collected: make(map[string]bool),
		changes:   make(map[string][]jj.Commit),
		parents:   make(map[string]string),
		roots:     make(map[string]bool),
	}

	for _, bm := range bookmarks {
		b.bookmarks[bm.Name] = bm
		b.byCommit[bm.CommitID] = append(b.byCommit[bm.CommitID], bm)
	}
	for commitID, group := range b.byCommit {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		b.byCommit[commitID] = group
		for _, bm := range group {
			b.primaryOf[bm.Name] = group[0].Name
		}
	}

	return b
}

// primaries returns the primary name of every bookmark group, sorted for
// deterministic walk order.
func (b *builder) primaries() []string {
	var names []string
	for _, group := range b.byCommit {
		names = append(names, group[0].Name)
	}
	sort.Strings(names)
	return names
}

// record stores one walk's segments and links them into the stacking
// forest. Discovery order is tip to base, so each discovered segment is the
// child of the one found after it.
func (b *builder) record(result walkResult) {
	for i, seg := range result.segments {
		b.changes[seg.name()] = seg.changes
		b.collected[seg.name()] = true
		if i > 0 {
			b.parents[result.segments[i-1].name()] = seg.name()
		}
	}

	outermost := result.segments[len(result.segments)-1].name()
	if result.baseBookmark != "" {
		b.parents[outermost] = result.baseBookmark
	} else {
		b.roots[outermost] = true
	}
}

func (b *builder) finish() *ChangeGraph {
	g := &ChangeGraph{
		bookmarks: b.bookmarks,
		primaryOf: b.primaryOf,
		groups:    make(map[string][]jj.Bookmark, len(b.byCommit)),
		changes:   b.changes,
		parents:   b.parents,
	}
	for _, group := range b.byCommit {
		g.groups[group[0].Name] = group
	}

	for name := range b.roots {
		g.Roots = append(g.Roots, name)
	}
	sort.Strings(g.Roots)

	g.Leaves = leafBookmarks(b.primaries(), b.parents)
	g.Stacks = assembleStacks(g)
	return g
}
