package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rob-berry-depop/jj-stack/internal/jj"
)

// Status icons
const (
	IconSynced    = "●"
	IconNeedsPush = "◐"
	IconLocal     = "◯"
)

// Status describes a bookmark's relationship to its remote counterpart for
// rendering.
type Status struct {
	Icon  string
	Label string
	Style lipgloss.Style
}

// BookmarkStatus returns the rendering status for a bookmark.
func BookmarkStatus(b jj.Bookmark) Status {
	switch {
	case b.HasRemote && b.IsSynced:
		return Status{Icon: IconSynced, Label: "synced", Style: SyncedStyle}
	case b.HasRemote:
		return Status{Icon: IconNeedsPush, Label: "needs push", Style: NeedsPushStyle}
	default:
		return Status{Icon: IconLocal, Label: "local", Style: LocalStyle}
	}
}

// Render returns the styled icon for the status.
func (s Status) Render() string {
	return s.Style.Render(s.Icon)
}

// RenderWithLabel returns the styled icon followed by the status label.
func (s Status) RenderWithLabel() string {
	return s.Style.Render(s.Icon) + " " + Dim(s.Label)
}
