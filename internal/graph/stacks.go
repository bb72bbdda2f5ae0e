package graph

import "sort"

// leafBookmarks returns the primary names with no children in the stacking
// forest, sorted.
func leafBookmarks(primaries []string, parents map[string]string) []string {
	hasChild := make(map[string]bool, len(parents))
	for _, parent := range parents {
		hasChild[parent] = true
	}

	var leaves []string
	for _, name := range primaries {
		if !hasChild[name] {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// assembleStacks builds one BranchStack per leaf by walking the stacking
// relationships from each leaf back to its root. Stacks sharing a prefix
// repeat the shared segments; deduplicated display is a consumer concern
// since bookmark and change identities are shared across stacks.
func assembleStacks(g *ChangeGraph) []BranchStack {
	stacks := make([]BranchStack, 0, len(g.Leaves))
	for _, leaf := range g.Leaves {
		path := []string{leaf}
		for {
			parent, ok := g.parents[path[0]]
			if !ok {
				break
			}
			path = append([]string{parent}, path...)
		}

		segments := make([]Segment, len(path))
		for i, name := range path {
			segments[i] = g.segmentOf(name)
		}
		stacks = append(stacks, BranchStack{Segments: segments})
	}
	return stacks
}
