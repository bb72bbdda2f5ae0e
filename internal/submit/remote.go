package submit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// ErrNotGitHubRemote marks a remote whose URL does not point at GitHub.
// Callers filtering remotes treat this as a skip, not a crash.
var ErrNotGitHubRemote = errors.New("not a GitHub remote")

// RepoInfo identifies a GitHub repository.
type RepoInfo struct {
	Owner string
	Repo  string
}

// ParseGitHubRemote extracts owner and repository from a git remote URL.
// Both https://github.com/owner/repo[.git] and git@github.com:owner/repo[.git]
// forms are accepted; the host must be github.com or a *.github.com
// subdomain.
func ParseGitHubRemote(remoteURL string) (RepoInfo, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return RepoInfo{}, fmt.Errorf("failed to parse remote URL %q: %w", remoteURL, err)
	}

	host := strings.ToLower(ep.Host)
	if host != "github.com" && !strings.HasSuffix(host, ".github.com") {
		return RepoInfo{}, fmt.Errorf("remote %q: %w", remoteURL, ErrNotGitHubRemote)
	}

	path := strings.Trim(ep.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoInfo{}, fmt.Errorf("remote URL %q does not look like a GitHub repository path", remoteURL)
	}

	return RepoInfo{Owner: parts[0], Repo: parts[1]}, nil
}
