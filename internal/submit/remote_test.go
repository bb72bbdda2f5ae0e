package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRemote(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    RepoInfo
		wantErr bool
	}{
		{"https", "https://github.com/owner/repo", RepoInfo{"owner", "repo"}, false},
		{"https with .git", "https://github.com/owner/repo.git", RepoInfo{"owner", "repo"}, false},
		{"scp-like ssh", "git@github.com:owner/repo.git", RepoInfo{"owner", "repo"}, false},
		{"scp-like without .git", "git@github.com:owner/repo", RepoInfo{"owner", "repo"}, false},
		{"ssh scheme", "ssh://git@github.com/owner/repo.git", RepoInfo{"owner", "repo"}, false},
		{"enterprise subdomain", "https://corp.github.com/owner/repo.git", RepoInfo{"owner", "repo"}, false},
		{"not github", "https://gitlab.com/owner/repo.git", RepoInfo{}, true},
		{"suffix but not subdomain", "https://evilgithub.com/owner/repo.git", RepoInfo{}, true},
		{"missing repo", "https://github.com/owner", RepoInfo{}, true},
		{"extra path", "https://github.com/owner/repo/extra", RepoInfo{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGitHubRemote(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGitHubRemote_NotGitHubIsSentinel(t *testing.T) {
	_, err := ParseGitHubRemote("https://gitlab.com/owner/repo.git")
	assert.ErrorIs(t, err, ErrNotGitHubRemote)
}
