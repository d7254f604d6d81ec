// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero downloads a Zotero library in BibLaTeX form and stores it
// as one .bib file per entry, so the collection can be kept under version
// control and re-ingested.
package zotero

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litindex/internal/bibtex"
	"github.com/pdiddy/litindex/internal/httputil"
	"github.com/pdiddy/litindex/pkg/types"
)

// Defaults for the Zotero web API.
const (
	DefaultBaseURL  = "https://api.zotero.org"
	DefaultGroupID  = "2425412"
	DefaultPageSize = 100
	apiVersion      = "3"
)

// DefaultRequestInterval spaces page requests so a full download stays
// within the API's request budget.
var DefaultRequestInterval = time.Second

// Client fetches items from one Zotero library.
type Client struct {
	HTTP    *http.Client
	cfg     types.ZoteroConfig
	limiter *rate.Limiter
}

// NewClient builds a client from cfg, filling unset fields with defaults.
func NewClient(cfg types.ZoteroConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LibraryType == "" {
		cfg.LibraryType = types.DefaultZoteroLibrary
	}
	if cfg.LibraryID == "" {
		cfg.LibraryID = DefaultGroupID
	}
	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(DefaultRequestInterval), 1),
	}
}

// itemsURL returns the items endpoint of the configured library.
func (c *Client) itemsURL() (string, error) {
	var prefix string
	switch c.cfg.LibraryType {
	case "group":
		prefix = "groups"
	case "user":
		prefix = "users"
	default:
		return "", fmt.Errorf("unknown Zotero library type %q: use group or user", c.cfg.LibraryType)
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + prefix + "/" + url.PathEscape(c.cfg.LibraryID) + "/items", nil
}

// Fetch downloads every item of the library, one page at a time, and parses
// the BibLaTeX the API returns. Malformed entries are returned separately.
// Progress is written to w.
func (c *Client) Fetch(ctx context.Context, w io.Writer) ([]types.RawRecord, []*bibtex.ParseError, error) {
	base, err := c.itemsURL()
	if err != nil {
		return nil, nil, err
	}

	var (
		records   []types.RawRecord
		malformed []*bibtex.ParseError
	)
	for start := 0; ; {
		body, total, err := c.page(ctx, base, start)
		if err != nil {
			return nil, nil, err
		}

		recs, bad, err := bibtex.Parse(fmt.Sprintf("zotero[%d]", start), bytes.NewReader(body))
		if err != nil {
			return nil, nil, fmt.Errorf("parsing Zotero page at %d: %w", start, err)
		}
		records = append(records, recs...)
		malformed = append(malformed, bad...)

		start += c.cfg.PageSize
		fmt.Fprintf(w, "fetched %d/%d items\n", min(start, total), total)
		if start >= total || len(recs)+len(bad) == 0 {
			break
		}
	}
	return records, malformed, nil
}

// page requests one page and returns its body and the library's total item
// count from the Total-Results header.
func (c *Client) page(ctx context.Context, base string, start int) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	params := url.Values{
		"format": {"biblatex"},
		"limit":  {strconv.Itoa(c.cfg.PageSize)},
		"start":  {strconv.Itoa(start)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Zotero-API-Version", apiVersion)
	if c.cfg.APIKey != "" {
		req.Header.Set("Zotero-API-Key", c.cfg.APIKey)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, 0, fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("Zotero API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading Zotero response: %w", err)
	}

	total, err := strconv.Atoi(resp.Header.Get("Total-Results"))
	if err != nil {
		return nil, 0, fmt.Errorf("Zotero response: invalid Total-Results header %q", resp.Header.Get("Total-Results"))
	}
	return body, total, nil
}

// FileName returns the file an entry is stored in: its lower-cased
// citation key with a .bib extension.
func FileName(r types.RawRecord) string {
	return strings.ToLower(strings.TrimSpace(r.ID)) + ".bib"
}

// WriteFiles stores each record in dir as its own .bib file, overwriting
// earlier downloads of the same entry, and returns the paths written.
func WriteFiles(dir string, records []types.RawRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	paths := make([]string, 0, len(records))
	for _, r := range records {
		name := FileName(r)
		if strings.ContainsAny(name, `/\`) {
			return paths, fmt.Errorf("citation key %q is not a valid file name", r.ID)
		}

		var buf bytes.Buffer
		if err := bibtex.Write(&buf, r); err != nil {
			return paths, fmt.Errorf("encoding %s: %w", r.ID, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
