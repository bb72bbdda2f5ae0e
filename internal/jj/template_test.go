package jj

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitRecord(fields ...string) string {
	return strings.Join(fields, fieldSep) + recordSep
}

func TestParseCommits(t *testing.T) {
	output := commitRecord(
		"abc123", "zyx987",
		"Test User", "test@example.com",
		"Add auth module",
		"def456,0000000",
		"auth,auth-wip",
		"auth@origin",
		"true",
		"2026-08-20T10:30:00+01:00",
		"2026-08-21T09:00:00+01:00",
	) + "\n" + commitRecord(
		"def456", "wvu654",
		"Test User", "test@example.com",
		"",
		"",
		"",
		"",
		"false",
		"2026-08-19T08:00:00+00:00",
		"2026-08-19T08:00:00+00:00",
	)

	commits, err := parseCommits(output)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "abc123", first.CommitID)
	assert.Equal(t, "zyx987", first.ChangeID)
	assert.Equal(t, "Test User", first.AuthorName)
	assert.Equal(t, "test@example.com", first.AuthorEmail)
	assert.Equal(t, "Add auth module", first.Description)
	assert.Equal(t, []string{"def456", "0000000"}, first.Parents)
	assert.Equal(t, []string{"auth", "auth-wip"}, first.LocalBookmarks)
	assert.Equal(t, []string{"auth@origin"}, first.RemoteBookmarks)
	assert.True(t, first.IsWorkingCopy)
	assert.True(t, first.IsMerge())
	assert.True(t, first.HasLocalBookmark("auth"))
	assert.False(t, first.HasLocalBookmark("profile"))

	wantAuthored, _ := time.Parse(time.RFC3339, "2026-08-20T10:30:00+01:00")
	assert.True(t, first.AuthoredAt.Equal(wantAuthored))

	second := commits[1]
	assert.Empty(t, second.Description)
	assert.Nil(t, second.Parents)
	assert.Nil(t, second.LocalBookmarks)
	assert.False(t, second.IsWorkingCopy)
	assert.False(t, second.IsMerge())
	assert.False(t, second.HasLocalBookmark("auth"))
}

func TestParseCommits_EmptyOutput(t *testing.T) {
	commits, err := parseCommits("")
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestParseCommits_MalformedRecord(t *testing.T) {
	_, err := parseCommits("only" + fieldSep + "four" + fieldSep + "fields" + fieldSep + "here" + recordSep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed commit record")
}

func TestParseCommits_BadTimestamp(t *testing.T) {
	output := commitRecord(
		"abc123", "zyx987", "u", "u@e", "desc", "", "", "", "false",
		"yesterday", "2026-08-19T08:00:00+00:00",
	)
	_, err := parseCommits(output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func bookmarkRecord(name, remote, commit, change string) string {
	return strings.Join([]string{name, remote, commit, change}, fieldSep) + recordSep
}

func TestParseBookmarkRefs(t *testing.T) {
	output := bookmarkRecord("auth", "", "a1", "za1") + "\n" +
		bookmarkRecord("auth", "origin", "a1", "za1")

	refs, err := parseBookmarkRefs(output)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, bookmarkRef{Name: "auth", CommitID: "a1", ChangeID: "za1"}, refs[0])
	assert.Equal(t, "origin", refs[1].Remote)
}

func TestMergeBookmarkRefs(t *testing.T) {
	refs := []bookmarkRef{
		// Synced with its remote.
		{Name: "auth", CommitID: "a1", ChangeID: "za1"},
		{Name: "auth", Remote: "origin", CommitID: "a1", ChangeID: "za1"},
		// Local moved ahead of the remote.
		{Name: "profile", CommitID: "p2", ChangeID: "zp1"},
		{Name: "profile", Remote: "origin", CommitID: "p1", ChangeID: "zp1"},
		// Never pushed.
		{Name: "profile-edit", CommitID: "e1", ChangeID: "ze1"},
		// Remote-only ref with no local counterpart.
		{Name: "someone-elses", Remote: "origin", CommitID: "x1", ChangeID: "zx1"},
	}

	bookmarks := mergeBookmarkRefs(refs)
	require.Len(t, bookmarks, 3)

	assert.Equal(t, Bookmark{Name: "auth", CommitID: "a1", ChangeID: "za1", HasRemote: true, IsSynced: true}, bookmarks[0])
	assert.Equal(t, Bookmark{Name: "profile", CommitID: "p2", ChangeID: "zp1", HasRemote: true, IsSynced: false}, bookmarks[1])
	assert.Equal(t, Bookmark{Name: "profile-edit", CommitID: "e1", ChangeID: "ze1"}, bookmarks[2])
}

func TestMergeBookmarkRefs_SkipsDeletedBookmarks(t *testing.T) {
	refs := []bookmarkRef{
		{Name: "gone", CommitID: "", ChangeID: ""},
		{Name: "gone", Remote: "origin", CommitID: "g1", ChangeID: "zg1"},
	}
	assert.Empty(t, mergeBookmarkRefs(refs))
}

func TestRevsetQuote(t *testing.T) {
	assert.Equal(t, `"auth"`, revsetQuote("auth"))
	assert.Equal(t, `"fix/issue-1"`, revsetQuote("fix/issue-1"))
	assert.Equal(t, `"a\"b"`, revsetQuote(`a"b`))
}
