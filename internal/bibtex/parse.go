// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex reads and writes BibTeX/BibLaTeX databases. Field values
// are kept verbatim (braces and LaTeX included) so entries can be written
// back out without loss; interpretation happens in the normalizer.
package bibtex

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litindex/pkg/types"
)

// ParseError reports a malformed entry. The reader skips the entry and
// continues with the next one.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// monthStrings are the predefined month macros.
var monthStrings = map[string]string{
	"jan": "January", "feb": "February", "mar": "March", "apr": "April",
	"may": "May", "jun": "June", "jul": "July", "aug": "August",
	"sep": "September", "oct": "October", "nov": "November", "dec": "December",
}

// Parse reads every entry from r. Malformed entries are returned as
// *ParseError values alongside the well-formed records; the error result is
// reserved for read failures.
func Parse(name string, r io.Reader) ([]types.RawRecord, []*ParseError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", name, err)
	}

	p := &parser{src: string(data), file: name, macros: make(map[string]string)}
	for k, v := range monthStrings {
		p.macros[k] = v
	}
	p.run()
	return p.records, p.errs, nil
}

type parser struct {
	src     string
	pos     int
	file    string
	macros  map[string]string
	records []types.RawRecord
	errs    []*ParseError
}

func (p *parser) run() {
	for {
		at := strings.IndexByte(p.src[p.pos:], '@')
		if at < 0 {
			return
		}
		start := p.pos + at
		p.pos = start + 1
		if err := p.entry(); err != nil {
			err.Line = p.line(start)
			p.errs = append(p.errs, err)
		}
	}
}

// entry parses one @type{...} block; p.pos is just past the '@'.
func (p *parser) entry() *ParseError {
	kind := strings.ToLower(p.ident())
	if kind == "" {
		return p.fail("expected entry type after '@'")
	}
	p.skipSpace()

	closer, ok := p.opener()
	if !ok && kind == "comment" {
		return nil
	}
	if !ok {
		return p.fail("expected '{' or '(' after @" + kind)
	}

	switch kind {
	case "comment", "preamble":
		return p.skipBlock(closer)
	case "string":
		return p.stringMacro(closer)
	}

	end := strings.IndexAny(p.src[p.pos:], ",\n"+string(closer))
	if end < 0 || p.src[p.pos+end] == '\n' {
		return p.fail("expected citation key followed by ','")
	}
	key := strings.TrimSpace(p.src[p.pos : p.pos+end])
	keyOnly := p.src[p.pos+end] == closer
	p.pos += end + 1

	fields := make(map[string]string)
	for !keyOnly {
		p.skipSpace()
		if p.eof() {
			return p.fail("unterminated entry " + key)
		}
		if p.src[p.pos] == closer {
			p.pos++
			break
		}

		name, value, err := p.field()
		if err != nil {
			return err
		}
		fields[strings.ToLower(name)] = value

		p.skipSpace()
		if !p.eof() && p.src[p.pos] == ',' {
			p.pos++
		}
	}

	rec, err := types.NewRawRecord(key, kind, fields)
	if err != nil {
		return p.fail(err.Error())
	}
	p.records = append(p.records, rec)
	return nil
}

func (p *parser) field() (string, string, *ParseError) {
	name := p.ident()
	if name == "" {
		return "", "", p.fail("expected field name")
	}
	p.skipSpace()
	if p.eof() || p.src[p.pos] != '=' {
		return "", "", p.fail("expected '=' after field " + name)
	}
	p.pos++
	value, err := p.value()
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// value parses a field value: braced or quoted text, a number, or a macro,
// joined with '#'.
func (p *parser) value() (string, *ParseError) {
	var b strings.Builder
	for {
		p.skipSpace()
		if p.eof() {
			return "", p.fail("unexpected end of input in value")
		}

		switch c := p.src[p.pos]; {
		case c == '{':
			end := matchClose(p.src, p.pos, '{', '}')
			if end < 0 {
				return "", p.fail("unbalanced braces in value")
			}
			b.WriteString(p.src[p.pos+1 : end])
			p.pos = end + 1
		case c == '"':
			end := closingQuote(p.src, p.pos+1)
			if end < 0 {
				return "", p.fail("unterminated quoted value")
			}
			b.WriteString(p.src[p.pos+1 : end])
			p.pos = end + 1
		default:
			word := p.ident()
			if word == "" {
				return "", p.fail(fmt.Sprintf("unexpected %q in value", c))
			}
			if v, ok := p.macros[strings.ToLower(word)]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(word)
			}
		}

		p.skipSpace()
		if p.eof() || p.src[p.pos] != '#' {
			return b.String(), nil
		}
		p.pos++
	}
}

func (p *parser) stringMacro(closer byte) *ParseError {
	p.skipSpace()
	name, value, err := p.field()
	if err != nil {
		return err
	}
	p.skipSpace()
	if p.eof() || p.src[p.pos] != closer {
		return p.fail("expected end of @string")
	}
	p.pos++
	p.macros[strings.ToLower(name)] = value
	return nil
}

func (p *parser) skipBlock(closer byte) *ParseError {
	open := byte('{')
	if closer == ')' {
		open = '('
	}
	end := matchClose(p.src, p.pos-1, open, closer)
	if end < 0 {
		return p.fail("unterminated block")
	}
	p.pos = end + 1
	return nil
}

func (p *parser) opener() (byte, bool) {
	if p.eof() {
		return 0, false
	}
	switch p.src[p.pos] {
	case '{':
		p.pos++
		return '}', true
	case '(':
		p.pos++
		return ')', true
	}
	return 0, false
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) line(offset int) int {
	return strings.Count(p.src[:offset], "\n") + 1
}

func (p *parser) fail(msg string) *ParseError {
	return &ParseError{File: p.file, Msg: msg}
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("_-:.+/", c) >= 0
}

// matchClose returns the index of the delimiter closing the one at open.
func matchClose(s string, open int, o, c byte) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case o:
			depth++
		case c:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// closingQuote finds the '"' ending a quoted value, ignoring quotes inside
// braces (e.g. {\"o}).
func closingQuote(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
