// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tags aggregates keyword frequencies over an index and prepares
// them for browsing.
package tags

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/internal/taxonomy"
	"github.com/pdiddy/litindex/pkg/types"
)

// Walker enumerates stored documents. *index.Store satisfies it.
type Walker interface {
	Walk(ctx context.Context, fn func(index.Document) error) error
}

// Aggregate counts every (category, label) pair across all documents.
// Labels are compared case-insensitively.
func Aggregate(ctx context.Context, src Walker) (types.TagFrequencies, error) {
	freqs := make(types.TagFrequencies)
	err := src.Walk(ctx, func(doc index.Document) error {
		for _, k := range doc.Record.Keywords {
			freqs.Add(k.Category, strings.ToLower(k.Label))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregating tags: %w", err)
	}
	return freqs, nil
}

// Render flattens each category's tags into a render sequence.
func Render(freqs types.TagFrequencies) map[string][]types.RenderItem {
	out := make(map[string][]types.RenderItem, len(freqs))
	for _, cat := range freqs.Categories() {
		out[cat] = taxonomy.Flatten(freqs.Sorted(cat))
	}
	return out
}

// SimilarPair is two tags of one category whose labels are close enough to
// be likely duplicates ("persistent homology" and "persistent homologies").
type SimilarPair struct {
	Category string         `json:"category" yaml:"category"`
	A        types.TagCount `json:"a" yaml:"a"`
	B        types.TagCount `json:"b" yaml:"b"`
	Score    float64        `json:"score" yaml:"score"`
}

// Similar reports label pairs within a category whose Jaro-Winkler
// similarity is at least threshold, ordered by category then descending
// score. Ancestor labels are not compared with their own descendants.
func Similar(freqs types.TagFrequencies, threshold float64) []SimilarPair {
	var pairs []SimilarPair
	for _, cat := range freqs.Categories() {
		sorted := freqs.Sorted(cat)
		var found []SimilarPair
		for i, a := range sorted {
			for _, b := range sorted[i+1:] {
				if isAncestor(a.Label, b.Label) {
					continue
				}
				score := smetrics.JaroWinkler(a.Label, b.Label, 0.7, 4)
				if score >= threshold {
					found = append(found, SimilarPair{Category: cat, A: a, B: b, Score: score})
				}
			}
		}
		sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
		pairs = append(pairs, found...)
	}
	return pairs
}

func isAncestor(a, b string) bool {
	return strings.HasPrefix(b, a+taxonomy.HierarchySeparator)
}
