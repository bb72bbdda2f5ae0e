package submit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rob-berry-depop/jj-stack/internal/gh"
	"github.com/rob-berry-depop/jj-stack/internal/graph"
	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

var testRemote = jj.Remote{Name: "origin", URL: "https://github.com/test-owner/test-repo.git"}

func narrowedSegment(name, commitID string, hasRemote, isSynced bool, title string) graph.Segment {
	seg := graph.Segment{
		Bookmarks: []jj.Bookmark{{
			Name:      name,
			CommitID:  commitID,
			ChangeID:  "z" + commitID,
			HasRemote: hasRemote,
			IsSynced:  isSynced,
		}},
	}
	if title != "" {
		seg.Changes = []jj.Commit{{CommitID: commitID, Description: title}}
	}
	return seg
}

// Scenario D: only the bottom bookmark has an open PR, and its base is
// stale. The plan marks exactly that bookmark for a base fix and the other
// two for creation.
func TestPlan_StaleBaseAndMissingPRs(t *testing.T) {
	jjMock := &MockJJClient{}
	ghMock := &MockGithubClient{}

	jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return([]string{"main@origin"}, nil)

	stalePR := gh.PullRequest{
		Number:  41,
		HTMLURL: "https://github.com/test-owner/test-repo/pull/41",
		State:   "open",
		Base:    gh.BranchRef{Ref: "old-base"},
		Head:    gh.BranchRef{Ref: "auth"},
	}
	ghMock.On("ListOpenPRsByHead", mock.Anything, "test-owner", "test-repo", "auth").
		Return([]gh.PullRequest{stalePR}, nil)
	ghMock.On("ListOpenPRsByHead", mock.Anything, "test-owner", "test-repo", "profile").
		Return([]gh.PullRequest{}, nil)
	ghMock.On("ListOpenPRsByHead", mock.Anything, "test-owner", "test-repo", "profile-edit").
		Return([]gh.PullRequest{}, nil)

	segments := []graph.Segment{
		narrowedSegment("auth", "a1", true, true, "Add auth module"),
		narrowedSegment("profile", "p1", true, true, "Add profile page"),
		narrowedSegment("profile-edit", "e1", false, false, "Allow profile edits"),
	}

	planner := NewPlanner(jjMock, ghMock)
	plan, err := planner.Plan(context.Background(), testRemote, &Config{}, segments)
	require.NoError(t, err)

	assert.Equal(t, "test-owner", plan.Owner)
	assert.Equal(t, "test-repo", plan.Repo)
	assert.Equal(t, "main", plan.DefaultBranch)
	assert.Equal(t, "profile-edit", plan.Target)
	require.Len(t, plan.Items, 3)

	auth := plan.Items[0]
	assert.Equal(t, "main", auth.ExpectedBase)
	assert.False(t, auth.NeedsPush)
	assert.False(t, auth.NeedsPR)
	assert.True(t, auth.NeedsBaseFix)
	require.NotNil(t, auth.ExistingPR)
	assert.Equal(t, 41, auth.ExistingPR.Number)

	profile := plan.Items[1]
	assert.Equal(t, "auth", profile.ExpectedBase)
	assert.False(t, profile.NeedsPush)
	assert.True(t, profile.NeedsPR)
	assert.False(t, profile.NeedsBaseFix)

	edit := plan.Items[2]
	assert.Equal(t, "profile", edit.ExpectedBase)
	assert.True(t, edit.NeedsPush, "bookmark without a remote needs a push")
	assert.True(t, edit.NeedsPR)

	assert.Equal(t, "Add auth module", auth.Title)
	assert.Equal(t, "Allow profile edits", edit.Title)
}

func TestPlan_NeedsPushWhenOutOfSync(t *testing.T) {
	jjMock := &MockJJClient{}
	ghMock := &MockGithubClient{}

	jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return([]string{"main@origin"}, nil)
	ghMock.On("ListOpenPRsByHead", mock.Anything, "test-owner", "test-repo", "auth").
		Return([]gh.PullRequest{}, nil)

	segments := []graph.Segment{
		narrowedSegment("auth", "a2", true, false, "Add auth module"),
	}

	plan, err := NewPlanner(jjMock, ghMock).Plan(context.Background(), testRemote, &Config{}, segments)
	require.NoError(t, err)
	assert.True(t, plan.Items[0].NeedsPush, "remote bookmark behind local needs a push")
}

// The title of a segment with no changes of its own falls back to the
// bookmark name.
func TestPlan_EmptySegmentTitleFallback(t *testing.T) {
	jjMock := &MockJJClient{}
	ghMock := &MockGithubClient{}

	jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return([]string{"main@origin"}, nil)
	ghMock.On("ListOpenPRsByHead", mock.Anything, "test-owner", "test-repo", "placeholder").
		Return([]gh.PullRequest{}, nil)

	segments := []graph.Segment{
		narrowedSegment("placeholder", "c1", false, false, ""),
	}

	plan, err := NewPlanner(jjMock, ghMock).Plan(context.Background(), testRemote, &Config{}, segments)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", plan.Items[0].Title)
}

func TestPlan_RejectsUnnarrowedSegments(t *testing.T) {
	jjMock := &MockJJClient{}
	ghMock := &MockGithubClient{}
	jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return([]string{"main@origin"}, nil)

	seg := narrowedSegment("alpha", "c1", false, false, "change")
	seg.Bookmarks = append(seg.Bookmarks, jj.Bookmark{Name: "beta", CommitID: "c1"})

	_, err := NewPlanner(jjMock, ghMock).Plan(context.Background(), testRemote, &Config{}, []graph.Segment{seg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
}

func TestPlan_DefaultBranchPreferenceOrder(t *testing.T) {
	tests := []struct {
		name            string
		remoteBookmarks []string
		want            string
		wantErr         bool
	}{
		{"main preferred over master", []string{"master@origin", "main@origin"}, "main", false},
		{"master when no main", []string{"master@origin"}, "master", false},
		{"trunk as last resort", []string{"trunk@origin"}, "trunk", false},
		{"other remotes ignored", []string{"main@upstream", "master@origin"}, "master", false},
		{"no candidate", []string{"develop@origin"}, "", true},
		{"no remote bookmarks", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jjMock := &MockJJClient{}
			ghMock := &MockGithubClient{}
			jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return(tt.remoteBookmarks, nil)
			ghMock.On("ListOpenPRsByHead", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return([]gh.PullRequest{}, nil)

			segments := []graph.Segment{narrowedSegment("auth", "a1", true, true, "change")}
			plan, err := NewPlanner(jjMock, ghMock).Plan(context.Background(), testRemote, &Config{}, segments)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no default branch")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.DefaultBranch)
		})
	}
}

func TestPlan_ConfigOverridesRemoteURL(t *testing.T) {
	jjMock := &MockJJClient{}
	ghMock := &MockGithubClient{}
	jjMock.On("TrunkRemoteBookmarks", mock.Anything).Return([]string{"main@origin"}, nil)
	ghMock.On("ListOpenPRsByHead", mock.Anything, "acme", "widgets", "auth").
		Return([]gh.PullRequest{}, nil)

	cfg := &Config{Owner: "acme", Repo: "widgets"}
	segments := []graph.Segment{narrowedSegment("auth", "a1", true, true, "change")}

	plan, err := NewPlanner(jjMock, ghMock).Plan(context.Background(), testRemote, cfg, segments)
	require.NoError(t, err)
	assert.Equal(t, "acme", plan.Owner)
	assert.Equal(t, "widgets", plan.Repo)
}
