package submit

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rob-berry-depop/jj-stack/internal/gh"
)

type MockJJClient struct {
	mock.Mock
}

// TrunkRemoteBookmarks implements JJClient.
func (m *MockJJClient) TrunkRemoteBookmarks(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// PushBookmark implements JJClient.
func (m *MockJJClient) PushBookmark(ctx context.Context, name, remote string) error {
	args := m.Called(ctx, name, remote)
	return args.Error(0)
}

type MockGithubClient struct {
	mock.Mock
}

// ListOpenPRsByHead implements GithubClient.
func (m *MockGithubClient) ListOpenPRsByHead(ctx context.Context, owner, repo, head string) ([]gh.PullRequest, error) {
	args := m.Called(ctx, owner, repo, head)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gh.PullRequest), args.Error(1)
}

// GetPR implements GithubClient.
func (m *MockGithubClient) GetPR(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PullRequest), args.Error(1)
}

// CreatePR implements GithubClient.
func (m *MockGithubClient) CreatePR(ctx context.Context, owner, repo string, spec gh.NewPullRequest) (*gh.PullRequest, error) {
	args := m.Called(ctx, owner, repo, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PullRequest), args.Error(1)
}

// UpdatePRBase implements GithubClient.
func (m *MockGithubClient) UpdatePRBase(ctx context.Context, owner, repo string, number int, base string) (*gh.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gh.PullRequest), args.Error(1)
}

// ListIssueComments implements GithubClient.
func (m *MockGithubClient) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]gh.Comment, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gh.Comment), args.Error(1)
}

// CreateIssueComment implements GithubClient.
func (m *MockGithubClient) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (int64, error) {
	args := m.Called(ctx, owner, repo, number, body)
	return args.Get(0).(int64), args.Error(1)
}

// UpdateIssueComment implements GithubClient.
func (m *MockGithubClient) UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	args := m.Called(ctx, owner, repo, commentID, body)
	return args.Error(0)
}
