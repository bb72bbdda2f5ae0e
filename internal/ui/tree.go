package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/rob-berry-depop/jj-stack/internal/graph"
)

// RenderStacks renders every branch stack in the graph as a tree, base to
// tip. Example output:
//
//	profile-edit
//	╰─┬ trunk
//	  ├─● auth  Add auth module (a1b2c3d4)
//	  ├─● profile  Add profile page (b2c3d4e5)
//	  ╰─◯ profile-edit  Allow profile edits (c3d4e5f6)
func RenderStacks(g *graph.ChangeGraph) string {
	if len(g.Stacks) == 0 {
		return Dim("No stacked bookmarks found.") + "\n" +
			Dim("Create one with: jj bookmark create <name>")
	}

	var out strings.Builder
	out.WriteString(HeaderStyle.Render(fmt.Sprintf("Stacks (%d)", len(g.Stacks))))
	out.WriteString("\n\n")

	for i, stack := range g.Stacks {
		out.WriteString(renderStackTree(stack))
		if i < len(g.Stacks)-1 {
			out.WriteString("\n\n")
		}
	}
	return out.String()
}

// renderStackTree renders one stack, named after its leaf bookmark.
func renderStackTree(s graph.BranchStack) string {
	maxTitle := GetTerminalWidth() - 30

	t := tree.Root(TreeRootStyle.Render(s.Leaf().Name()))
	base := tree.Root(Dim("trunk"))
	for _, seg := range s.Segments {
		base.Child(formatSegmentLine(seg, maxTitle))
	}
	t.Child(base)

	t.Enumerator(tree.RoundedEnumerator)
	t.EnumeratorStyle(TreeEnumeratorStyle)
	return t.String()
}

func formatSegmentLine(seg graph.Segment, maxTitle int) string {
	primary := seg.Bookmarks[0]
	status := BookmarkStatus(primary)

	line := status.Render() + " " + Bold(primary.Name)
	if seg.IsMultiBookmark() {
		var others []string
		for _, b := range seg.Bookmarks[1:] {
			others = append(others, b.Name)
		}
		line += Dim(" (also " + strings.Join(others, ", ") + ")")
	}

	line += "  " + Truncate(seg.Title(), maxTitle)
	line += " " + Dim("("+ShortID(primary.CommitID)+")")
	return line
}
