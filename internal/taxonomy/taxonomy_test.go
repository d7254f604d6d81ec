// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/litindex/pkg/types"
)

func kw(category, label string) types.Keyword {
	return types.Keyword{Category: category, Label: label}
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.Keyword
	}{
		{
			name: "numeric codes map to categories",
			raw:  "1-images, 2-persistent homology, 3-mnist",
			want: []types.Keyword{
				kw(CategoryApplications, "images"),
				kw(CategoryData, "mnist"),
				kw(CategoryTools, "persistent homology"),
			},
		},
		{
			name: "hierarchy is ancestor-closed",
			raw:  "1-images:3d:mesh",
			want: []types.Keyword{
				kw(CategoryApplications, "images"),
				kw(CategoryApplications, "images:3d"),
				kw(CategoryApplications, "images:3d:mesh"),
			},
		},
		{
			name: "split on first hyphen only",
			raw:  "2-mapper-based clustering",
			want: []types.Keyword{kw(CategoryTools, "mapper-based clustering")},
		},
		{
			name: "alphabetic codes are links, not tags",
			raw:  "C-https://github.com/x/y, V-https://youtu.be/z talk, 1-graphs",
			want: []types.Keyword{kw(CategoryApplications, "graphs")},
		},
		{
			name: "flavours are case-insensitive, other bare tokens dropped",
			raw:  "Innovate, confirm, random, ",
			want: []types.Keyword{
				kw(CategoryFlavour, "confirm"),
				kw(CategoryFlavour, "innovate"),
			},
		},
		{
			name: "duplicates collapse",
			raw:  "1-images:3d, 1-images, 1-Images:3D",
			want: []types.Keyword{
				kw(CategoryApplications, "images"),
				kw(CategoryApplications, "images:3d"),
			},
		},
		{
			name: "unknown codes pass through",
			raw:  "4-misc",
			want: []types.Keyword{kw("4", "misc")},
		},
		{
			name: "empty label or code dropped",
			raw:  "1-, -orphan",
			want: nil,
		},
		{
			name: "empty field",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.raw)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeywordsAncestorClosure(t *testing.T) {
	raws := []string{
		"1-a:b:c",
		"2-x:y, 2-x:y:z:w, 3-d",
		"1-images:3d:mesh, 1-text:nlp",
	}

	for _, raw := range raws {
		got := ParseKeywords(raw)
		present := make(map[types.Keyword]bool, len(got))
		for _, k := range got {
			present[k] = true
		}
		for _, k := range got {
			for _, anc := range Ancestors(k.Label) {
				assert.True(t, present[kw(k.Category, anc)], "%q: missing ancestor %q of %q", raw, anc, k.Label)
			}
		}
	}
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"a:b:c", "a:b", "a"}, Ancestors("a:b:c"))
	assert.Equal(t, []string{"a"}, Ancestors("a"))
}

func TestParseLinks(t *testing.T) {
	raw := "1-graphs, C-https://github.com/x/y, C-https://gitlab.com/z mirror copy, V-https://youtu.be/v, C-"

	assert.Equal(t, []types.Link{
		{URL: "https://github.com/x/y"},
		{URL: "https://gitlab.com/z", Title: "mirror copy"},
	}, ParseLinks(raw, LinkCode))
	assert.Equal(t, []types.Link{{URL: "https://youtu.be/v"}}, ParseLinks(raw, LinkVideo))
	assert.Empty(t, ParseLinks(raw, LinkData))
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   []types.TagCount
		want []types.RenderItem
	}{
		{
			name: "nested labels",
			in: []types.TagCount{
				{Label: "images", Count: 2},
				{Label: "images:3d", Count: 5},
				{Label: "images:3d:mesh", Count: 1},
				{Label: "text", Count: 3},
			},
			want: []types.RenderItem{
				types.Leaf("images", 2),
				types.Descend,
				types.Leaf("images:3d", 5),
				types.Descend,
				types.Leaf("images:3d:mesh", 1),
				types.Ascend,
				types.Ascend,
				types.Leaf("text", 3),
			},
		},
		{
			name: "trailing levels closed",
			in: []types.TagCount{
				{Label: "foo", Count: 1},
				{Label: "foo:bar", Count: 1},
				{Label: "foo:bar:baz", Count: 1},
			},
			want: []types.RenderItem{
				types.Leaf("foo", 1),
				types.Descend,
				types.Leaf("foo:bar", 1),
				types.Descend,
				types.Leaf("foo:bar:baz", 1),
				types.Ascend,
				types.Ascend,
			},
		},
		{
			name: "flat list",
			in:   []types.TagCount{{Label: "a", Count: 1}, {Label: "b", Count: 4}},
			want: []types.RenderItem{types.Leaf("a", 1), types.Leaf("b", 4)},
		},
		{
			name: "empty",
			in:   nil,
			want: []types.RenderItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.in))
		})
	}
}

func TestFlattenBalanced(t *testing.T) {
	in := []types.TagCount{
		{Label: "a", Count: 1},
		{Label: "a:b", Count: 1},
		{Label: "a:b:c", Count: 1},
		{Label: "a:d", Count: 1},
		{Label: "e", Count: 1},
		{Label: "e:f", Count: 1},
	}

	depth := 0
	for _, item := range Flatten(in) {
		switch item.Kind {
		case types.RenderDescend:
			depth++
		case types.RenderAscend:
			depth--
		case types.RenderLeaf:
			assert.Equal(t, Depth(item.Label), depth, "label %q", item.Label)
		}
		assert.GreaterOrEqual(t, depth, 0)
	}
	assert.Equal(t, 0, depth)
}
