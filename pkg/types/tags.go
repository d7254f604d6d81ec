// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"slices"
	"sort"
	"strings"
)

// TagCount pairs a tag label with its number of occurrences.
type TagCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// TagFrequencies maps category to (label to occurrence count) across all
// indexed documents. It is derived on demand and never persisted.
type TagFrequencies map[string]map[string]int

// Add increments the counter for label in category.
func (f TagFrequencies) Add(category, label string) {
	m, ok := f[category]
	if !ok {
		m = make(map[string]int)
		f[category] = m
	}
	m[label]++
}

// Categories returns the category names in sorted order.
func (f TagFrequencies) Categories() []string {
	cats := make([]string, 0, len(f))
	for c := range f {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Sorted returns the tags of one category in hierarchy order (see
// CompareLabels), so every label directly follows its ancestors and
// descendants.
func (f TagFrequencies) Sorted(category string) []TagCount {
	m := f[category]
	out := make([]TagCount, 0, len(m))
	for label, n := range m {
		out = append(out, TagCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return CompareLabels(out[i].Label, out[j].Label) < 0 })
	return out
}

// CompareLabels orders hierarchical labels segment by segment, with a label
// before its descendants. Unlike plain string order it keeps "images:3d"
// next to "images" even when "images-x" or "images0" exist.
func CompareLabels(a, b string) int {
	return slices.Compare(strings.Split(a, ":"), strings.Split(b, ":"))
}

// RenderKind distinguishes leaves from structural markers in a render sequence.
type RenderKind int

const (
	RenderLeaf RenderKind = iota
	RenderDescend
	RenderAscend
)

// String returns the marker name.
func (k RenderKind) String() string {
	switch k {
	case RenderDescend:
		return "descend"
	case RenderAscend:
		return "ascend"
	default:
		return "leaf"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k RenderKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RenderItem is one element of a flattened tag hierarchy: either a leaf
// carrying a label and count, or a descend/ascend marker.
type RenderItem struct {
	Kind  RenderKind `json:"kind" yaml:"kind"`
	Label string     `json:"label,omitempty" yaml:"label,omitempty"`
	Count int        `json:"count,omitempty" yaml:"count,omitempty"`
}

// Leaf builds a leaf item.
func Leaf(label string, count int) RenderItem {
	return RenderItem{Kind: RenderLeaf, Label: label, Count: count}
}

// Descend and Ascend are the structural markers.
var (
	Descend = RenderItem{Kind: RenderDescend}
	Ascend  = RenderItem{Kind: RenderAscend}
)
