// Package record provides keyed collection persistence over a single backing
// location. Every mutation reads the whole collection, modifies it in memory
// and rewrites it atomically.
package record

import "sync"

// Backend stores the encoded bytes of exactly one collection.
type Backend interface {
	// Read returns the stored bytes. It returns an error satisfying
	// errors.Is(err, fs.ErrNotExist) when nothing has been stored yet.
	Read() ([]byte, error)

	// Write atomically replaces the stored bytes. A reader never observes
	// a partially written collection.
	Write(data []byte) error

	// LockKey identifies the backing location. Backends that share a key
	// share a mutex.
	LockKey() string

	// String describes the location for error messages.
	String() string

	// Sibling returns a backend stored next to this one, distinguished by
	// suffix. It is used to set aside data that cannot be decoded.
	Sibling(suffix string) Backend
}

// Codec converts between a collection and its serialized form.
type Codec[T any] interface {
	Encode(records []T) ([]byte, error)
	Decode(data []byte) ([]T, error)
}

var locks sync.Map // lock key -> *sync.Mutex

// lockFor returns the process-wide mutex guarding a backing location.
func lockFor(key string) *sync.Mutex {
	mu, _ := locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
