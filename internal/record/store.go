package record

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"time"
)

// Store persists a homogeneous collection of records identified by a string
// key. All methods hold the backing location's lock for their whole
// read-modify-write cycle.
type Store[T any] struct {
	name    string
	backend Backend
	codec   Codec[T]
	key     func(T) string
	mu      *sync.Mutex
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report recovered corruption.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New returns a Store for the named collection.
func New[T any](name string, backend Backend, codec Codec[T], key func(T) string, opts ...Option) *Store[T] {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		name:    name,
		backend: backend,
		codec:   codec,
		key:     key,
		mu:      lockFor(backend.LockKey()),
		logger:  o.logger,
	}
}

// Name returns the collection name.
func (s *Store[T]) Name() string {
	return s.name
}

// Location describes the backing location.
func (s *Store[T]) Location() string {
	return s.backend.String()
}

// Load returns every stored record in stored order.
// A missing backing location is an empty collection. Content that cannot be
// decoded yields an empty collection together with a *CorruptError.
func (s *Store[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Find returns the first record with the given key.
func (s *Store[T]) Find(key string) (T, bool, error) {
	var zero T
	records, err := s.Load()
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if s.key(r) == key {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Upsert replaces the record sharing rec's key, or appends rec when there is
// none. At most one existing record is replaced.
func (s *Store[T]) Upsert(rec T) error {
	k := s.key(rec)
	if k == "" {
		return fmt.Errorf("cannot save to %s: %w", s.name, ErrEmptyKey)
	}
	return s.Update(func(records []T) ([]T, error) {
		for i := range records {
			if s.key(records[i]) == k {
				records[i] = rec
				return records, nil
			}
		}
		return append(records, rec), nil
	})
}

// Delete removes every record with the given key and returns how many were
// removed. The collection is not rewritten when nothing matches.
func (s *Store[T]) Delete(key string) (int, error) {
	return s.DeleteFunc(func(r T) bool { return s.key(r) == key })
}

// DeleteFunc removes every record for which match returns true.
func (s *Store[T]) DeleteFunc(match func(T) bool) (int, error) {
	removed := 0
	err := s.Update(func(records []T) ([]T, error) {
		kept := records[:0]
		for _, r := range records {
			if match(r) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if removed == 0 {
			return nil, ErrNoChange
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Update loads the collection, passes it to fn and writes back what fn
// returns. If fn returns an error nothing is written; ErrNoChange is swallowed.
// A corrupt collection is handed to fn as empty so that it can be rewritten.
// fn must not call back into the same Store.
func (s *Store[T]) Update(fn func(records []T) ([]T, error)) error {
	return s.update(fn, nil, false)
}

// UpdateStrict is Update, except that a corrupt collection is reported as a
// *CorruptError instead of being replaced.
func (s *Store[T]) UpdateStrict(fn func(records []T) ([]T, error)) error {
	return s.update(fn, nil, true)
}

// UpdateStrictOrUndo is UpdateStrict with a compensation step. If fn succeeds
// but the result cannot be written, undo runs before the lock is released, so
// no other caller of this Store observes the state between the failed write
// and the compensation. An undo error is joined to the write error.
func (s *Store[T]) UpdateStrictOrUndo(fn func(records []T) ([]T, error), undo func() error) error {
	return s.update(fn, undo, true)
}

// Quarantine sets aside a collection that cannot be decoded. The raw bytes are
// copied to a sibling location suffixed with ".corrupt-<UTC timestamp>" and the
// collection is replaced by an empty one. It returns the sibling's location,
// or "" when the collection is absent or decodes cleanly.
func (s *Store[T]) Quarantine() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(); !IsCorrupt(err) {
		return "", err
	}
	data, err := s.backend.Read()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.name, err)
	}

	backup := s.backend.Sibling(".corrupt-" + time.Now().UTC().Format("20060102T150405.000000000Z"))
	if err := backup.Write(data); err != nil {
		return "", fmt.Errorf("failed to set aside corrupt %s: %w", s.name, err)
	}
	if err := s.write([]T{}); err != nil {
		return "", err
	}

	s.logger.Warn("quarantined corrupt collection",
		"collection", s.name,
		"location", s.backend.String(),
		"backup", backup.String())
	return backup.String(), nil
}

func (s *Store[T]) update(fn func(records []T) ([]T, error), undo func() error, strict bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		var corrupt *CorruptError
		if strict || !errors.As(err, &corrupt) {
			return err
		}
		s.logger.Warn("overwriting corrupt collection",
			"collection", s.name,
			"location", s.backend.String(),
			"error", corrupt.Err)
	}

	updated, err := fn(records)
	if err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	if err := s.write(updated); err != nil {
		if undo == nil {
			return err
		}
		if undoErr := undo(); undoErr != nil {
			return errors.Join(err, undoErr)
		}
		return err
	}
	return nil
}

func (s *Store[T]) load() ([]T, error) {
	data, err := s.backend.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.name, err)
	}

	records, err := s.codec.Decode(data)
	if err != nil {
		return []T{}, s.corrupt(err)
	}
	for i, r := range records {
		if s.key(r) == "" {
			return []T{}, s.corrupt(fmt.Errorf("record %d: %w", i+1, ErrEmptyKey))
		}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *Store[T]) write(records []T) error {
	data, err := s.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}
	return nil
}

func (s *Store[T]) corrupt(err error) error {
	return &CorruptError{Collection: s.name, Location: s.backend.String(), Err: err}
}
