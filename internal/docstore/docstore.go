// Package docstore defines the per-user document store the synchronizer
// writes through. Adapters live under internal/docstore/<driver>/.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned by Get when no document has the requested id.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrInvalidDocument is returned when a user, collection or id is empty.
	ErrInvalidDocument = errors.New("docstore: invalid document")
)

// Document is one record in a user's collection. Fields must be JSON
// encodable; adapters return numbers as float64.
type Document struct {
	ID        string
	Timestamp time.Time
	Fields    map[string]any
}

// Store is a per-user document store.
//
// Query returns documents ordered by Timestamp ascending; documents with equal
// timestamps keep the order in which their ids were first written.
//
// Merge writes doc's top-level fields over the stored ones, creating the
// document when absent. A nil field value removes that field. A zero
// Timestamp leaves the stored timestamp unchanged.
type Store interface {
	Get(ctx context.Context, userID, collection, id string) (*Document, error)
	Query(ctx context.Context, userID, collection string) ([]Document, error)
	Upsert(ctx context.Context, userID, collection string, doc Document) error
	Merge(ctx context.Context, userID, collection string, doc Document) error
	Ping(ctx context.Context) error
	Close() error
}

// Validate reports ErrInvalidDocument when any part of a document address is empty.
func Validate(userID, collection, id string) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: empty user id", ErrInvalidDocument)
	case collection == "":
		return fmt.Errorf("%w: empty collection", ErrInvalidDocument)
	case id == "":
		return fmt.Errorf("%w: empty document id", ErrInvalidDocument)
	}
	return nil
}

// UnixNanos encodes t for storage. The zero time encodes as 0.
func UnixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// FromUnixNanos is the inverse of UnixNanos. Times come back in UTC.
func FromUnixNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// EncodeFields marshals fields, treating nil as an empty object.
func EncodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return b, nil
}

// DecodeFields unmarshals a stored JSON object.
func DecodeFields(b []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(b) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

// MergeFields applies patch onto base in place: nil values delete keys, any
// other value replaces the stored one.
func MergeFields(base, patch map[string]any) map[string]any {
	if base == nil {
		base = map[string]any{}
	}
	for k, v := range patch {
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	return base
}
