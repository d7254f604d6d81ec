// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads raw citation records from a directory of
// human-authored files: BibTeX (.bib) and YAML (.yaml, .yml) lists.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litindex/internal/bibtex"
	"github.com/pdiddy/litindex/pkg/types"
)

// Collection is everything read from one source location.
type Collection struct {
	// Records holds the well-formed entries in file order.
	Records []types.RawRecord

	// Malformed holds one *bibtex.ParseError per entry that was skipped.
	Malformed []*bibtex.ParseError

	// Files lists the files that were read.
	Files []string
}

// Load reads every supported file in dir, or dir itself when it names a
// single file. Files are read in lexical order so later files win when
// identifiers repeat.
func Load(dir string) (Collection, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Collection{}, fmt.Errorf("reading source %s: %w", dir, err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return Collection{}, fmt.Errorf("reading source directory %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && supported(e.Name()) {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(files)
	} else {
		files = []string{dir}
	}

	var c Collection
	for _, path := range files {
		if err := c.loadFile(path); err != nil {
			return c, err
		}
		c.Files = append(c.Files, path)
	}
	return c, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bib", ".yaml", ".yml":
		return !strings.HasPrefix(name, ".")
	}
	return false
}

func (c *Collection) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".bib" {
		recs, malformed, err := bibtex.Parse(path, bytes.NewReader(data))
		if err != nil {
			return err
		}
		c.Records = append(c.Records, recs...)
		c.Malformed = append(c.Malformed, malformed...)
		return nil
	}

	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		c.Malformed = append(c.Malformed, &bibtex.ParseError{File: path, Msg: "parse error: " + err.Error()})
		return nil
	}
	for i := range nodes {
		rec, err := decodeEntry(&nodes[i])
		if err != nil {
			c.Malformed = append(c.Malformed, &bibtex.ParseError{
				File: path,
				Line: nodes[i].Line,
				Msg:  fmt.Sprintf("entry %d: %v", i+1, err),
			})
			continue
		}
		c.Records = append(c.Records, rec)
	}
	return nil
}

// yamlEntry is one record of a YAML source list.
type yamlEntry struct {
	ID     string                `yaml:"id"`
	Type   string                `yaml:"type"`
	Fields map[string]fieldValue `yaml:"fields"`
}

// fieldValue accepts a scalar or a list of scalars. Scalars keep their
// source text, so dates are not reformatted.
type fieldValue []string

func (v *fieldValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = fieldValue{node.Value}
		return nil
	case yaml.SequenceNode:
		items := make(fieldValue, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list items must be plain values", item.Line)
			}
			items = append(items, item.Value)
		}
		*v = items
		return nil
	}
	return fmt.Errorf("line %d: field must be a value or a list of values", node.Line)
}

// nameFields are joined with the BibTeX name separator so RawRecord.Authors
// splits them again.
var nameFields = map[string]bool{"author": true, "editor": true}

func decodeEntry(node *yaml.Node) (types.RawRecord, error) {
	var e yamlEntry
	if err := node.Decode(&e); err != nil {
		return types.RawRecord{}, err
	}

	fields := make(map[string]string, len(e.Fields))
	for name, value := range e.Fields {
		sep := ", "
		if nameFields[strings.ToLower(name)] {
			sep = " and "
		}
		fields[name] = strings.Join(value, sep)
	}
	return types.NewRawRecord(e.ID, e.Type, fields)
}
