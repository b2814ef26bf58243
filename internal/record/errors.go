package record

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by key finds nothing.
	ErrNotFound = errors.New("record not found")

	// ErrEmptyKey is returned when a record without a key is written.
	ErrEmptyKey = errors.New("record has an empty key")

	// ErrNoChange can be returned from an Update callback to finish without
	// rewriting the collection and without reporting an error.
	ErrNoChange = errors.New("no change")
)

// CorruptError reports a backing location whose content exists but cannot be
// decoded into records. Load returns it together with an empty collection.
type CorruptError struct {
	Collection string // collection name, e.g. "facilities"
	Location   string // backend description, e.g. a file path
	Err        error  // the decode failure
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s collection at %s is corrupt: %v", e.Collection, e.Location, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IsCorrupt reports whether err is or wraps a *CorruptError.
func IsCorrupt(err error) bool {
	var corrupt *CorruptError
	return errors.As(err, &corrupt)
}
