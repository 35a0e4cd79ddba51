// Package midierr defines the sentinel error kinds shared by every
// encoding/sampling package, so callers can use errors.Is against a
// stable set of failure categories instead of matching strings.
package midierr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField means a Piece/Track/Bar/Event field is missing or
	// out of its structural range (e.g. a bar index outside the track).
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidToken means a raw integer is not a valid token id in
	// the active Representation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrValueNotInDomain means a value was looked up against a
	// TokenDomain that does not contain it.
	ErrValueNotInDomain = errors.New("value not in domain")
	// ErrGrammarViolation means a token was emitted or requested that
	// the grammar graph does not allow from the current node.
	ErrGrammarViolation = errors.New("grammar violation")
	// ErrNoLegalToken means the mask for the current step is all zero.
	ErrNoLegalToken = errors.New("no legal token")
	// ErrCoverageIncomplete means the multi-step planner could not
	// cover every selected bar/track with a generated step.
	ErrCoverageIncomplete = errors.New("piece is only partially covered")
	// ErrInvalidSelection means a caller-provided selection mask
	// references a bar or track outside the piece.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrMissingNotes means a decode step expected at least one note
	// event but found none.
	ErrMissingNotes = errors.New("missing notes")
)

// Wrap attaches context to one of the sentinel kinds above while
// keeping it matchable with errors.Is(err, kind).
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
