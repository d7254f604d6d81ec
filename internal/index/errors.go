// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document ID or identifier is unknown.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyIndex is returned by Random when the index holds no documents.
	ErrEmptyIndex = errors.New("index is empty")
)

// QuerySyntaxError reports malformed query text. It is an input error to be
// shown to the user, not a system failure.
type QuerySyntaxError struct {
	Query string
	Pos   int
	Msg   string
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("query syntax error at position %d: %s", e.Pos, e.Msg)
}
