package gh

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ResolveToken finds a GitHub token, preferring the gh CLI's stored
// credentials over environment variables so that users already logged in
// with gh need no extra setup.
func ResolveToken(ctx context.Context) (string, error) {
	if token := ghCLIToken(ctx); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no GitHub token found: run 'gh auth login' or set GITHUB_TOKEN")
}

// ghCLIToken asks the gh CLI for its stored token. Returns empty if gh is
// not installed or not logged in.
func ghCLIToken(ctx context.Context) string {
	output, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
