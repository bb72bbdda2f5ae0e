package submit

import (
	"fmt"

	"github.com/rob-berry-depop/jj-stack/internal/graph"
	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// BookmarkChooser resolves a multi-bookmark segment to a single bookmark,
// typically by asking the user.
type BookmarkChooser func(segment graph.Segment) (jj.Bookmark, error)

// NarrowSegments reduces every segment in a downstack chain to exactly one
// bookmark, as the planner requires. Single-bookmark segments pass through;
// when several bookmarks share a commit, the one with a remote wins if it
// is unique, and the chooser decides otherwise.
func NarrowSegments(segments []graph.Segment, choose BookmarkChooser) ([]graph.Segment, error) {
	narrowed := make([]graph.Segment, len(segments))
	for i, seg := range segments {
		if len(seg.Bookmarks) == 0 {
			return nil, fmt.Errorf("internal error: segment at position %d has no bookmarks", i)
		}
		if len(seg.Bookmarks) == 1 {
			narrowed[i] = seg
			continue
		}

		bookmark, ok := soleRemoteBookmark(seg.Bookmarks)
		if !ok {
			var err error
			bookmark, err = choose(seg)
			if err != nil {
				return nil, err
			}
		}

		narrowed[i] = graph.Segment{
			Bookmarks:  []jj.Bookmark{bookmark},
			Changes:    seg.Changes,
			BaseCommit: seg.BaseCommit,
		}
	}
	return narrowed, nil
}

// soleRemoteBookmark returns the single bookmark with a remote, if exactly
// one of the colocated bookmarks has one.
func soleRemoteBookmark(bookmarks []jj.Bookmark) (jj.Bookmark, bool) {
	var match jj.Bookmark
	count := 0
	for _, b := range bookmarks {
		if b.HasRemote {
			match = b
			count++
		}
	}
	return match, count == 1
}
