// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index stores normalized records in a SQLite database with an FTS5
// full-text table and answers field-aware queries against it.
//
// One writer at a time: a Session holds the store's write lock and a SQL
// transaction until Commit or Rollback. Readers never take the lock; WAL
// journaling gives them the state before or after a commit, never a mix.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litindex/internal/textnorm"
	"github.com/pdiddy/litindex/pkg/types"
)

const dbFile = "litindex.db"

// Document is a stored record and the ID the index assigned to it.
type Document struct {
	DocID  int64                  `json:"id" yaml:"id"`
	Record types.NormalizedRecord `json:"document" yaml:"document"`
}

// Results holds the matches of one query, newest first.
type Results struct {
	Query     string     `json:"query" yaml:"query"`
	Documents []Document `json:"documents" yaml:"documents"`
}

// Len returns the number of matches.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Documents)
}

// Store manages the index database.
type Store struct {
	db          *sql.DB
	titleWeight float64
	defaultOp   nodeKind

	// mu serializes write sessions.
	mu sync.Mutex

	// intn returns a value in [0, n); replaced in tests.
	intn func(n int64) int64
}

// Open opens or creates the index database at cfg.IndexDir/litindex.db and
// creates the schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	cfg = cfg.WithDefaults()

	op, err := parseOperator(cfg.DefaultOperator)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:          db,
		titleWeight: cfg.TitleWeight,
		defaultOp:   op,
		intn:        rand.Int64N,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

func parseOperator(s string) (nodeKind, error) {
	switch strings.ToLower(s) {
	case types.DefaultOperatorOr:
		return nodeOr, nil
	case types.DefaultOperatorAnd:
		return nodeAnd, nil
	}
	return 0, fmt.Errorf("unknown default operator %q (want %q or %q)",
		s, types.DefaultOperatorOr, types.DefaultOperatorAnd)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id INTEGER PRIMARY KEY AUTOINCREMENT,
			id_term TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			year INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			title, author, abstract, keyword,
			tokenize = "unicode61 remove_diacritics 0 tokenchars '|'"
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IdentifierTerm returns the unique term under which a record identifier is
// stored.
func IdentifierTerm(identifier string) string {
	return "Q" + identifier
}

// Session is an exclusive write session. Changes become visible to readers
// on Commit.
type Session struct {
	store *Store
	tx    *sql.Tx
	done  bool
}

// Begin starts a write session, waiting for any other session to finish.
func (s *Store) Begin(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Session{store: s, tx: tx}, nil
}

// Commit publishes the session's changes and releases the write lock.
func (ss *Session) Commit() error {
	if ss.done {
		return errors.New("session already closed")
	}
	ss.done = true
	defer ss.store.mu.Unlock()
	if err := ss.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rollback discards the session's changes and releases the write lock. It is
// a no-op after Commit, so it can be deferred.
func (ss *Session) Rollback() error {
	if ss.done {
		return nil
	}
	ss.done = true
	defer ss.store.mu.Unlock()
	if err := ss.tx.Rollback(); err != nil {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

// Ingest stores rec, replacing any document with the same identifier. A
// replaced document keeps its ID and has every term re-derived. It reports
// the document ID and whether an existing document was replaced.
//
// Each record is written under a savepoint: on error the session holds
// neither the new document nor a damaged copy of the old one.
func (ss *Session) Ingest(ctx context.Context, rec types.NormalizedRecord) (int64, bool, error) {
	if ss.done {
		return 0, false, errors.New("session already closed")
	}

	if _, err := ss.tx.ExecContext(ctx, `SAVEPOINT ingest_record`); err != nil {
		return 0, false, fmt.Errorf("starting savepoint for %s: %w", rec.Identifier, err)
	}
	docID, replaced, err := ss.ingest(ctx, rec)
	if err != nil {
		if _, rerr := ss.tx.ExecContext(ctx, `ROLLBACK TO ingest_record`); rerr != nil {
			return 0, false, errors.Join(err, fmt.Errorf("rolling back %s: %w", rec.Identifier, rerr))
		}
		ss.tx.ExecContext(ctx, `RELEASE ingest_record`)
		return 0, false, err
	}
	if _, err := ss.tx.ExecContext(ctx, `RELEASE ingest_record`); err != nil {
		return 0, false, fmt.Errorf("releasing savepoint for %s: %w", rec.Identifier, err)
	}
	return docID, replaced, nil
}

func (ss *Session) ingest(ctx context.Context, rec types.NormalizedRecord) (int64, bool, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return 0, false, fmt.Errorf("encoding %s: %w", rec.Identifier, err)
	}

	term := IdentifierTerm(rec.Identifier)
	year := SortYear(rec.Year)

	var docID int64
	replaced := true
	err = ss.tx.QueryRowContext(ctx,
		`SELECT doc_id FROM documents WHERE id_term = ?`, term,
	).Scan(&docID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		replaced = false
		res, err := ss.tx.ExecContext(ctx,
			`INSERT INTO documents (id_term, kind, year, payload) VALUES (?, ?, ?, ?)`,
			term, rec.EntryKind, year, string(payload))
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", rec.Identifier, err)
		}
		if docID, err = res.LastInsertId(); err != nil {
			return 0, false, fmt.Errorf("reading document ID for %s: %w", rec.Identifier, err)
		}
	case err != nil:
		return 0, false, fmt.Errorf("looking up %s: %w", rec.Identifier, err)
	default:
		if _, err := ss.tx.ExecContext(ctx,
			`UPDATE documents SET kind = ?, year = ?, payload = ? WHERE doc_id = ?`,
			rec.EntryKind, year, string(payload), docID); err != nil {
			return 0, false, fmt.Errorf("updating %s: %w", rec.Identifier, err)
		}
		if _, err := ss.tx.ExecContext(ctx,
			`DELETE FROM documents_fts WHERE rowid = ?`, docID); err != nil {
			return 0, false, fmt.Errorf("clearing terms of %s: %w", rec.Identifier, err)
		}
	}

	title, author, abstract, keyword := fieldText(rec)
	if _, err := ss.tx.ExecContext(ctx,
		`INSERT INTO documents_fts (rowid, title, author, abstract, keyword) VALUES (?, ?, ?, ?, ?)`,
		docID, title, author, abstract, keyword); err != nil {
		return 0, false, fmt.Errorf("indexing terms of %s: %w", rec.Identifier, err)
	}

	return docID, replaced, nil
}

// valueBreak separates the values of a multi-valued column. Terms never
// contain it, so a phrase cannot match across two authors or two labels.
const valueBreak = " | "

// fieldText derives the analyzed text of each full-text column. Authors are
// indexed as written and, when different, with accents folded so "Jose"
// finds "José". Keyword labels are indexed without their category.
func fieldText(rec types.NormalizedRecord) (title, author, abstract, keyword string) {
	var names []string
	for _, a := range rec.Authors {
		names = append(names, analyze(a))
		if folded := textnorm.Fold(a); folded != a {
			names = append(names, analyze(folded))
		}
	}

	var labels []string
	for _, k := range rec.Keywords {
		labels = append(labels, analyze(k.Label))
	}

	return analyze(rec.Title), strings.Join(names, valueBreak), analyze(rec.Abstract), strings.Join(labels, valueBreak)
}

// Ingest stores a single record in its own session.
func (s *Store) Ingest(ctx context.Context, rec types.NormalizedRecord) (int64, bool, error) {
	ss, err := s.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer ss.Rollback()

	docID, replaced, err := ss.Ingest(ctx, rec)
	if err != nil {
		return 0, false, err
	}
	return docID, replaced, ss.Commit()
}

// Lookup returns the document with the given ID.
func (s *Store) Lookup(ctx context.Context, docID int64) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc_id, payload FROM documents WHERE doc_id = ?`, docID)
	return scanDocument(row)
}

// LookupIdentifier returns the document stored under a record identifier.
func (s *Store) LookupIdentifier(ctx context.Context, identifier string) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc_id, payload FROM documents WHERE id_term = ?`, IdentifierTerm(identifier))
	return scanDocument(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (Document, error) {
	var (
		doc     Document
		payload string
	)
	if err := row.Scan(&doc.DocID, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("reading document: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &doc.Record); err != nil {
		return Document{}, fmt.Errorf("decoding document %d: %w", doc.DocID, err)
	}
	return doc, nil
}

// Random returns a document picked uniformly from the range of IDs ever
// assigned. IDs freed by deletion are not skipped, so a pick can land on a
// hole and return ErrNotFound.
func (s *Store) Random(ctx context.Context) (Document, error) {
	var maxID sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT seq FROM sqlite_sequence WHERE name = 'documents'`,
	).Scan(&maxID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("reading last document ID: %w", err)
	}
	if !maxID.Valid || maxID.Int64 < 1 {
		return Document{}, ErrEmptyIndex
	}
	return s.Lookup(ctx, s.intn(maxID.Int64)+1)
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Walk calls fn for every document in ID order. It stops at the first error
// fn returns.
func (s *Store) Walk(ctx context.Context, fn func(Document) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id, payload FROM documents ORDER BY doc_id`)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	return nil
}

// Query runs a field-aware query and returns every match, newest first.
// Matches from the same year keep relevance order, with title matches
// weighted above other fields. Blank text returns nil Results; malformed
// text returns a *QuerySyntaxError.
func (s *Store) Query(ctx context.Context, text string) (*Results, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tree, err := parseQuery(text, s.defaultOp)
	if err != nil {
		return nil, err
	}

	results := &Results{Query: text}
	if tree == nil {
		return results, nil
	}

	stmt := fmt.Sprintf(`SELECT documents.doc_id, documents.payload, documents.year
		FROM documents_fts JOIN documents ON documents.doc_id = documents_fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY bm25(documents_fts, %g, 1.0, 1.0, 1.0)`, s.titleWeight)

	rows, err := s.db.QueryContext(ctx, stmt, tree.match())
	if err != nil {
		return nil, queryError(text, err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var (
			doc     Document
			payload string
			year    int
		)
		if err := rows.Scan(&doc.DocID, &payload, &year); err != nil {
			return nil, fmt.Errorf("reading match: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &doc.Record); err != nil {
			return nil, fmt.Errorf("decoding document %d: %w", doc.DocID, err)
		}
		results.Documents = append(results.Documents, doc)
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(text, err)
	}

	sort.Stable(byYear{docs: results.Documents, years: years})
	return results, nil
}

// queryError reports FTS5 rejections of the rendered expression as syntax
// errors and wraps everything else.
func queryError(text string, err error) error {
	if strings.Contains(err.Error(), "fts5:") {
		return &QuerySyntaxError{Query: text, Msg: err.Error()}
	}
	return fmt.Errorf("running query: %w", err)
}

type byYear struct {
	docs  []Document
	years []int
}

func (b byYear) Len() int           { return len(b.docs) }
func (b byYear) Less(i, j int) bool { return b.years[i] > b.years[j] }
func (b byYear) Swap(i, j int) {
	b.docs[i], b.docs[j] = b.docs[j], b.docs[i]
	b.years[i], b.years[j] = b.years[j], b.years[i]
}

// SortYear returns the integer value of the leading digits of year, or 0
// when it has none ("2021a" is 2021).
func SortYear(year string) int {
	year = strings.TrimSpace(year)
	n := 0
	for _, r := range year {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
