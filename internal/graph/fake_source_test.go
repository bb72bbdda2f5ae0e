package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// fakeSource is an in-memory CommitSource over a hand-built commit history.
// Commits are linked by parent pointers; trunk is the ancestor chain of
// trunkTip.
type fakeSource struct {
	commits  map[string]jj.Commit
	tips     map[string]string // bookmark name -> commit id
	trunkTip string

	pagesFetched    int
	ancestorQueries int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		commits: make(map[string]jj.Commit),
		tips:    make(map[string]string),
	}
}

// addCommit adds a commit with the given parents and local bookmarks. The
// description is derived from the id so titles are predictable in tests.
func (f *fakeSource) addCommit(id string, parents []string, bookmarks ...string) {
	f.commits[id] = jj.Commit{
		CommitID:       id,
		ChangeID:       "z" + id,
		AuthorName:     "test-user",
		AuthorEmail:    "test-user@example.com",
		Description:    "change " + id,
		Parents:        parents,
		LocalBookmarks: bookmarks,
	}
	for _, b := range bookmarks {
		f.tips[b] = id
	}
}

// linear adds a chain of single-parent commits on top of base and returns
// the id of the last one.
func (f *fakeSource) linear(base string, ids []string, bookmarkAtTip string) string {
	parent := base
	for i, id := range ids {
		var bookmarks []string
		if i == len(ids)-1 && bookmarkAtTip != "" {
			bookmarks = append(bookmarks, bookmarkAtTip)
		}
		f.addCommit(id, []string{parent}, bookmarks...)
		parent = id
	}
	return parent
}

// bookmarks returns jj.Bookmark values for every bookmark in the history,
// sorted by name, with no remote state.
func (f *fakeSource) bookmarks() []jj.Bookmark {
	var out []jj.Bookmark
	for name, commitID := range f.tips {
		out = append(out, jj.Bookmark{
			Name:     name,
			CommitID: commitID,
			ChangeID: f.commits[commitID].ChangeID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeSource) trunkSet() map[string]bool {
	set := make(map[string]bool)
	id := f.trunkTip
	for id != "" {
		set[id] = true
		parents := f.commits[id].Parents
		if len(parents) == 0 {
			break
		}
		id = parents[0]
	}
	return set
}

func (f *fakeSource) FindCommonAncestor(_ context.Context, bookmark string) (jj.Commit, error) {
	f.ancestorQueries++

	tip, ok := f.tips[bookmark]
	if !ok {
		return jj.Commit{}, fmt.Errorf("unknown bookmark %s", bookmark)
	}

	onTrunk := f.trunkSet()
	id := tip
	for {
		if onTrunk[id] {
			return f.commits[id], nil
		}
		parents := f.commits[id].Parents
		if len(parents) == 0 {
			return jj.Commit{}, fmt.Errorf("bookmark %s has no common ancestor with trunk", bookmark)
		}
		id = parents[0]
	}
}

func (f *fakeSource) GetChangesBetween(_ context.Context, fromCommitID, toCommitID, cursor string) ([]jj.Commit, error) {
	f.pagesFetched++

	start := toCommitID
	if cursor != "" {
		parents := f.commits[cursor].Parents
		if len(parents) == 0 {
			return nil, nil
		}
		start = parents[0]
	}

	var page []jj.Commit
	id := start
	for id != fromCommitID && len(page) < jj.PageSize {
		commit, ok := f.commits[id]
		if !ok {
			return nil, fmt.Errorf("unknown commit %s", id)
		}
		page = append(page, commit)
		if len(commit.Parents) == 0 {
			break
		}
		id = commit.Parents[0]
	}
	return page, nil
}
