package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

func init() {
	// Force lipgloss to initialize and detect terminal before fuzzy finder starts
	// This prevents ANSI escape sequences from leaking into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// SelectBookmark presents a fuzzy finder to pick one bookmark out of several
// pointing at the same commit. Returns an error if the user cancels.
func SelectBookmark(prompt string, bookmarks []jj.Bookmark) (jj.Bookmark, error) {
	// Flush stdout/stderr before starting fuzzy finder to clear any ANSI sequences
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		bookmarks,
		func(i int) string {
			return formatBookmarkFinderLine(bookmarks[i])
		},
		fuzzyfinder.WithHeader(prompt),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return formatBookmarkPreview(bookmarks[i])
		}),
	)
	if err != nil {
		return jj.Bookmark{}, fmt.Errorf("bookmark selection cancelled")
	}
	return bookmarks[idx], nil
}

// SelectRemote presents a fuzzy finder to pick the remote to submit to when
// the repository has more than one.
func SelectRemote(remotes []jj.Remote) (jj.Remote, error) {
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		remotes,
		func(i int) string {
			return fmt.Sprintf("%s  %s", remotes[i].Name, remotes[i].URL)
		},
		fuzzyfinder.WithHeader("Select the remote to submit to"),
	)
	if err != nil {
		return jj.Remote{}, fmt.Errorf("remote selection cancelled")
	}
	return remotes[idx], nil
}

func formatBookmarkFinderLine(b jj.Bookmark) string {
	status := BookmarkStatus(b)
	return fmt.Sprintf("%s (%s, %s)", b.Name, ShortID(b.CommitID), status.Label)
}

func formatBookmarkPreview(b jj.Bookmark) string {
	status := BookmarkStatus(b)
	lines := []string{
		"Bookmark: " + b.Name,
		"Commit:   " + ShortID(b.CommitID),
		"Change:   " + ShortID(b.ChangeID),
		"Status:   " + status.Label,
	}
	return strings.Join(lines, "\n")
}
