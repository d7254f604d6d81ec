// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library is the entry point for callers: it binds one index
// location and exposes batch ingestion from source files, document lookup,
// search, and tag browsing.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/litindex/internal/export"
	"github.com/pdiddy/litindex/internal/index"
	"github.com/pdiddy/litindex/internal/normalize"
	"github.com/pdiddy/litindex/internal/source"
	"github.com/pdiddy/litindex/internal/tags"
	"github.com/pdiddy/litindex/pkg/types"
)

// Library is an open index plus the configuration it was opened with.
type Library struct {
	cfg   types.LibraryConfig
	store *index.Store
}

// Open opens the index named by cfg, creating it if needed.
func Open(cfg types.LibraryConfig) (*Library, error) {
	cfg = cfg.WithDefaults()
	store, err := index.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &Library{cfg: cfg, store: store}, nil
}

// Close releases the index.
func (l *Library) Close() error {
	return l.store.Close()
}

// Config returns the resolved configuration.
func (l *Library) Config() types.LibraryConfig {
	return l.cfg
}

// IngestSummary holds counts from one ingestion run.
type IngestSummary struct {
	// Indexed counts records new to the index.
	Indexed int
	// Updated counts records that replaced a stored document.
	Updated int
	// Skipped counts malformed source entries and records that could not
	// be normalized.
	Skipped int
}

// Total returns the number of entries processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// IngestCollection reads every record under sourceDir, normalizes it, and
// upserts it into the index in a single write session. One line per record
// is written to w. A record that cannot be parsed or normalized is counted
// and reported, never fatal. A storage failure aborts the batch and rolls
// back the session, so readers never see a partly indexed collection.
func (l *Library) IngestCollection(ctx context.Context, sourceDir string, w io.Writer) (IngestSummary, error) {
	coll, err := source.Load(sourceDir)
	if err != nil {
		return IngestSummary{}, err
	}

	var summary IngestSummary
	for _, perr := range coll.Malformed {
		fmt.Fprintf(w, "skipped %v\n", perr)
		summary.Skipped++
	}

	results, err := normalizeAll(ctx, coll.Records)
	if err != nil {
		return summary, err
	}

	session, err := l.store.Begin(ctx)
	if err != nil {
		return summary, err
	}
	defer session.Rollback()

	for i, n := range results {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if n.err != nil {
			fmt.Fprintf(w, "skipped %s: %v\n", coll.Records[i].ID, n.err)
			summary.Skipped++
			continue
		}

		docID, replaced, err := session.Ingest(ctx, n.rec)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", n.rec.Identifier, err)
			return summary, fmt.Errorf("indexing %s: %w", n.rec.Identifier, err)
		}

		if replaced {
			fmt.Fprintf(w, "updated %s (doc %d)\n", n.rec.Identifier, docID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (doc %d)\n", n.rec.Identifier, docID)
			summary.Indexed++
		}
	}

	if err := session.Commit(); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d (%d files)\n",
		summary.Indexed, summary.Updated, summary.Skipped, len(coll.Files))
	return summary, nil
}

// normalized is the outcome of normalizing one raw record.
type normalized struct {
	rec types.NormalizedRecord
	err error
}

// normalizeAll normalizes records on all CPUs. Results keep source order;
// a record that fails normalization carries its error instead of aborting.
func normalizeAll(ctx context.Context, records []types.RawRecord) ([]normalized, error) {
	out := make([]normalized, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, raw := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := normalize.Record(raw)
			out[i] = normalized{rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ingest upserts a single normalized record.
func (l *Library) Ingest(ctx context.Context, rec types.NormalizedRecord) (int64, error) {
	docID, _, err := l.store.Ingest(ctx, rec)
	return docID, err
}

// GetDocument returns the document stored under ref, which is a record
// identifier or, failing that, a numeric document ID.
func (l *Library) GetDocument(ctx context.Context, ref string) (index.Document, error) {
	ref = strings.TrimSpace(ref)
	doc, err := l.store.LookupIdentifier(ctx, ref)
	if !errors.Is(err, index.ErrNotFound) {
		return doc, err
	}
	docID, perr := strconv.ParseInt(ref, 10, 64)
	if perr != nil {
		return index.Document{}, fmt.Errorf("%q: %w", ref, index.ErrNotFound)
	}
	doc, err = l.store.Lookup(ctx, docID)
	if err != nil {
		return index.Document{}, fmt.Errorf("%q: %w", ref, err)
	}
	return doc, nil
}

// GetRandomDocument returns a document picked at random.
func (l *Library) GetRandomDocument(ctx context.Context) (index.Document, error) {
	return l.store.Random(ctx)
}

// Search runs query text against the index. Blank text returns nil Results.
func (l *Library) Search(ctx context.Context, text string) (*index.Results, error) {
	return l.store.Query(ctx, text)
}

// Count returns the number of indexed documents.
func (l *Library) Count(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

// TagFrequencies counts keyword occurrences across the index.
func (l *Library) TagFrequencies(ctx context.Context) (types.TagFrequencies, error) {
	return tags.Aggregate(ctx, l.store)
}

// SimilarTags reports near-duplicate tag labels.
func (l *Library) SimilarTags(ctx context.Context, threshold float64) ([]tags.SimilarPair, error) {
	freqs, err := l.TagFrequencies(ctx)
	if err != nil {
		return nil, err
	}
	return tags.Similar(freqs, threshold), nil
}

// RenderHierarchy flattens each category's tags into a render sequence.
func RenderHierarchy(freqs types.TagFrequencies) map[string][]types.RenderItem {
	return tags.Render(freqs)
}

// KindFilter selects documents by entry kind.
type KindFilter string

const (
	KindAll      KindFilter = "all"
	KindPapers   KindFilter = "papers"
	KindSoftware KindFilter = "software"
)

// ParseKindFilter resolves a filter name; the empty string means all.
func ParseKindFilter(s string) (KindFilter, error) {
	switch f := KindFilter(strings.ToLower(s)); f {
	case "":
		return KindAll, nil
	case KindAll, KindPapers, KindSoftware:
		return f, nil
	}
	return "", fmt.Errorf("unknown kind %q: use all, papers, or software", s)
}

func (f KindFilter) match(rec types.NormalizedRecord) bool {
	switch f {
	case KindPapers:
		return !rec.IsSoftware()
	case KindSoftware:
		return rec.IsSoftware()
	}
	return true
}

// List returns the documents matching filter, newest first.
func (l *Library) List(ctx context.Context, filter KindFilter) ([]index.Document, error) {
	var docs []index.Document
	err := l.store.Walk(ctx, func(d index.Document) error {
		if filter.match(d.Record) {
			docs = append(docs, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return index.SortYear(docs[i].Record.Year) > index.SortYear(docs[j].Record.Year)
	})
	return docs, nil
}

// Export writes the document stored under ref to w in format.
func (l *Library) Export(ctx context.Context, ref string, format export.Format, w io.Writer) error {
	doc, err := l.GetDocument(ctx, ref)
	if err != nil {
		return err
	}
	return export.Write(w, format, doc)
}
