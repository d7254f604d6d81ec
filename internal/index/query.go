// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Full-text columns.
const (
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldAbstract = "abstract"
	FieldKeyword  = "keyword"
)

// fieldPrefixes maps query prefixes to columns; tag: and keyword: share one.
var fieldPrefixes = map[string]string{
	"title":    FieldTitle,
	"author":   FieldAuthor,
	"abstract": FieldAbstract,
	"tag":      FieldKeyword,
	"keyword":  FieldKeyword,
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokField
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits query text into tokens. Operators are recognized only in upper
// case; a known field prefix ("title:") becomes its own token.
func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++
		case r == '"':
			end := strings.IndexByte(src[i+1:], '"')
			if end < 0 {
				return nil, &QuerySyntaxError{Query: src, Pos: i, Msg: "unterminated phrase"}
			}
			toks = append(toks, token{kind: tokPhrase, text: src[i+1 : i+1+end], pos: i})
			i += end + 2
		default:
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
					break
				}
				i += size
			}
			toks = append(toks, wordTokens(src[start:i], start)...)
		}
	}
	return toks, nil
}

func wordTokens(word string, pos int) []token {
	switch word {
	case "AND":
		return []token{{kind: tokAnd, pos: pos}}
	case "OR":
		return []token{{kind: tokOr, pos: pos}}
	case "NOT":
		return []token{{kind: tokNot, pos: pos}}
	}

	if prefix, rest, ok := strings.Cut(word, ":"); ok {
		if field, known := fieldPrefixes[strings.ToLower(prefix)]; known {
			toks := []token{{kind: tokField, text: field, pos: pos}}
			if rest != "" {
				toks = append(toks, token{kind: tokWord, text: rest, pos: pos + len(prefix) + 1})
			}
			return toks
		}
	}
	return []token{{kind: tokWord, text: word, pos: pos}}
}

type nodeKind int

const (
	nodePhrase nodeKind = iota
	nodeAnd
	nodeOr
	nodeNot
)

// node is a parsed query clause. A phrase with one term is a plain term.
type node struct {
	kind        nodeKind
	field       string
	terms       []string
	left, right *node
}

// combine joins two clauses; a nil side (a word without searchable terms)
// leaves the other side.
func combine(kind nodeKind, left, right *node) *node {
	switch {
	case left == nil && kind == nodeNot:
		return nil
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return &node{kind: kind, left: left, right: right}
}

// withField scopes every unscoped leaf of n to field.
func withField(n *node, field string) *node {
	if n == nil {
		return nil
	}
	if n.kind == nodePhrase {
		if n.field == "" {
			n.field = field
		}
		return n
	}
	withField(n.left, field)
	withField(n.right, field)
	return n
}

// match renders the clause as an FTS5 query expression.
func (n *node) match() string {
	switch n.kind {
	case nodeAnd:
		return "(" + n.left.match() + " AND " + n.right.match() + ")"
	case nodeOr:
		return "(" + n.left.match() + " OR " + n.right.match() + ")"
	case nodeNot:
		return "(" + n.left.match() + " NOT " + n.right.match() + ")"
	}
	phrase := `"` + strings.Join(n.terms, " ") + `"`
	if n.field != "" {
		return n.field + " : " + phrase
	}
	return phrase
}

// parseQuery parses query text into a clause tree. Adjacent clauses without
// an explicit operator are joined by defaultOp. A nil tree with a nil error
// means the text held no searchable terms.
//
//	or   := and { OR and }
//	and  := not { AND [NOT] not }
//	not  := seq { NOT seq }
//	seq  := unit { unit }
//	unit := [field] ( word | "phrase" | '(' or ')' )
func parseQuery(src string, defaultOp nodeKind) (*node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &queryParser{src: src, toks: toks, defaultOp: defaultOp}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %s", p.peek().describe())
	}
	return n, nil
}

type queryParser struct {
	src       string
	toks      []token
	pos       int
	defaultOp nodeKind
}

func (p *queryParser) done() bool  { return p.pos >= len(p.toks) }
func (p *queryParser) peek() token { return p.toks[p.pos] }

func (p *queryParser) accept(kind tokenKind) bool {
	if !p.done() && p.peek().kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *queryParser) errorf(format string, args ...any) error {
	pos := len(p.src)
	if !p.done() {
		pos = p.peek().pos
	}
	return &QuerySyntaxError{Query: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *queryParser) or() (*node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = combine(nodeOr, left, right)
	}
	return left, nil
}

func (p *queryParser) and() (*node, error) {
	left, err := p.not()
	if err != nil {
		return nil, err
	}
	for p.accept(tokAnd) {
		kind := nodeAnd
		if p.accept(tokNot) {
			kind = nodeNot
		}
		right, err := p.not()
		if err != nil {
			return nil, err
		}
		left = combine(kind, left, right)
	}
	return left, nil
}

func (p *queryParser) not() (*node, error) {
	left, err := p.seq()
	if err != nil {
		return nil, err
	}
	for p.accept(tokNot) {
		right, err := p.seq()
		if err != nil {
			return nil, err
		}
		left = combine(nodeNot, left, right)
	}
	return left, nil
}

func (p *queryParser) seq() (*node, error) {
	left, err := p.unit()
	if err != nil {
		return nil, err
	}
	for !p.done() && startsUnit(p.peek().kind) {
		right, err := p.unit()
		if err != nil {
			return nil, err
		}
		left = combine(p.defaultOp, left, right)
	}
	return left, nil
}

func startsUnit(k tokenKind) bool {
	return k == tokWord || k == tokPhrase || k == tokField || k == tokLParen
}

func (p *queryParser) unit() (*node, error) {
	if p.done() {
		return nil, p.errorf("expected a term")
	}

	t := p.peek()
	switch t.kind {
	case tokField:
		p.pos++
		if p.done() || !startsUnit(p.peek().kind) || p.peek().kind == tokField {
			return nil, p.errorf("expected a term after %s:", t.text)
		}
		n, err := p.unit()
		if err != nil {
			return nil, err
		}
		return withField(n, t.text), nil
	case tokWord, tokPhrase:
		p.pos++
		terms := Terms(t.text)
		if len(terms) == 0 {
			return nil, nil
		}
		return &node{kind: nodePhrase, terms: terms}, nil
	case tokLParen:
		p.pos++
		n, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokRParen) {
			return nil, p.errorf("missing ')'")
		}
		return n, nil
	}
	return nil, p.errorf("unexpected %s", t.describe())
}

func (t token) describe() string {
	switch t.kind {
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	case tokRParen:
		return "')'"
	case tokLParen:
		return "'('"
	case tokField:
		return t.text + ":"
	}
	return `"` + t.text + `"`
}
