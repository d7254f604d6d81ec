// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import "github.com/pdiddy/litindex/pkg/types"

// Flatten converts the sorted tags of one category into a render sequence.
// A descend marker precedes a label one level deeper than its predecessor,
// ascend markers close every level left when the depth shrinks, and trailing
// ascends close whatever is still open at the end.
//
// Ancestor closure guarantees the depth never grows by more than one between
// consecutive labels, so a single descend suffices. Call it once per
// category; levels from different categories must not mix.
func Flatten(sorted []types.TagCount) []types.RenderItem {
	out := make([]types.RenderItem, 0, len(sorted))
	level := 0

	for _, tc := range sorted {
		depth := Depth(tc.Label)
		if depth > level {
			out = append(out, types.Descend)
		} else {
			for i := 0; i < level-depth; i++ {
				out = append(out, types.Ascend)
			}
		}
		level = depth
		out = append(out, types.Leaf(tc.Label, tc.Count))
	}

	for i := 0; i < level; i++ {
		out = append(out, types.Ascend)
	}
	return out
}
