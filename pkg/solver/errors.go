package solver

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned, wrapped in a *QueryError, when a call breaks
// the input contract. No search is attempted for such calls.
var ErrInvalidQuery = errors.New("invalid query")

// QueryError describes why a query was rejected.
type QueryError struct {
	Letters string
	Lengths []int
	Reason  string
}

func (e *QueryError) Error() string {
	if len(e.Lengths) > 0 {
		return fmt.Sprintf("invalid query %q %v: %s", e.Letters, e.Lengths, e.Reason)
	}
	return fmt.Sprintf("invalid query %q: %s", e.Letters, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return ErrInvalidQuery
}

func invalid(letters string, lengths []int, format string, args ...any) error {
	return &QueryError{
		Letters: letters,
		Lengths: lengths,
		Reason:  fmt.Sprintf(format, args...),
	}
}
