package audit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKeyNotFound means no schedule entry matched any candidate key.
	ErrKeyNotFound = errors.New("fee schedule key not found")

	// ErrMalformedNumeric means a site size, GLA, value or fee cell could
	// not be parsed.
	ErrMalformedNumeric = errors.New("malformed numeric value")

	// ErrUnknownJobType means the schedule entry has no column for the
	// order's job type.
	ErrUnknownJobType = errors.New("job type not in fee schedule")

	// ErrMissingColumns means the order table is narrower than the column
	// layout. It fails the whole run.
	ErrMissingColumns = errors.New("order table is missing required columns")
)

// KeyNotFoundError lists every key tried, most specific first.
type KeyNotFoundError struct {
	Tried []string
}

func (e *KeyNotFoundError) Error() string {
	quoted := make([]string, len(e.Tried))
	for i, k := range e.Tried {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("%v: tried %s", ErrKeyNotFound, strings.Join(quoted, ", "))
}

func (e *KeyNotFoundError) Unwrap() error {
	return ErrKeyNotFound
}

// RecordError is a failure confined to one order. The order is skipped and
// the run continues.
type RecordError struct {
	Row         int
	ReferenceID string
	Field       string
	Value       string
	Err         error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d (ref %s): %v", e.Row, e.ReferenceID, e.Err)
	}
	return fmt.Sprintf("row %d (ref %s): %s %q: %v", e.Row, e.ReferenceID, e.Field, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Kind returns a short label for metrics and logs.
func (e *RecordError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrKeyNotFound):
		return "key_not_found"
	case errors.Is(e.Err, ErrMalformedNumeric):
		return "malformed_numeric"
	case errors.Is(e.Err, ErrUnknownJobType):
		return "unknown_job_type"
	default:
		return "other"
	}
}
