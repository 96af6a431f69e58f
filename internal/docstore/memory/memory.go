// Package memory is an in-process docstore.Store. Documents are copied
// through JSON on write so reads behave like the persistent adapters.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
)

type record struct {
	seq    uint64
	ts     int64
	fields []byte
}

type key struct{ user, collection string }

// Store keeps every collection in a map guarded by a single mutex.
type Store struct {
	mu    sync.RWMutex
	seq   uint64
	colls map[key]map[string]record
}

// New returns an empty Store.
func New() *Store {
	return &Store{colls: map[key]map[string]record{}}
}

func (s *Store) Get(_ context.Context, userID, collection, id string) (*docstore.Document, error) {
	if err := docstore.Validate(userID, collection, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rec, ok := s.colls[key{userID, collection}][id]
	s.mu.RUnlock()
	if !ok {
		return nil, docstore.ErrNotFound
	}
	doc, err := rec.document(id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) Query(_ context.Context, userID, collection string) ([]docstore.Document, error) {
	if err := docstore.Validate(userID, collection, "-"); err != nil {
		return nil, err
	}
	type row struct {
		id string
		record
	}
	s.mu.RLock()
	rows := make([]row, 0, len(s.colls[key{userID, collection}]))
	for id, rec := range s.colls[key{userID, collection}] {
		rows = append(rows, row{id, rec})
	}
	s.mu.RUnlock()

	slices.SortFunc(rows, func(a, b row) int {
		if a.ts != b.ts {
			if a.ts < b.ts {
				return -1
			}
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		return 1
	})

	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.document(r.id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Upsert(_ context.Context, userID, collection string, doc docstore.Document) error {
	if err := docstore.Validate(userID, collection, doc.ID); err != nil {
		return err
	}
	b, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collection(userID, collection)
	rec, ok := coll[doc.ID]
	if !ok {
		rec.seq = s.next()
	}
	rec.ts = docstore.UnixNanos(doc.Timestamp)
	rec.fields = b
	coll[doc.ID] = rec
	return nil
}

func (s *Store) Merge(_ context.Context, userID, collection string, doc docstore.Document) error {
	if err := docstore.Validate(userID, collection, doc.ID); err != nil {
		return err
	}
	// Round-trip the patch so stored values have JSON types.
	patchJSON, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	patch, err := docstore.DecodeFields(patchJSON)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.collection(userID, collection)
	rec, ok := coll[doc.ID]
	base := map[string]any{}
	if ok {
		if base, err = docstore.DecodeFields(rec.fields); err != nil {
			return err
		}
	} else {
		rec.seq = s.next()
	}
	merged, err := docstore.EncodeFields(docstore.MergeFields(base, patch))
	if err != nil {
		return err
	}
	rec.fields = merged
	if !doc.Timestamp.IsZero() {
		rec.ts = docstore.UnixNanos(doc.Timestamp)
	}
	coll[doc.ID] = rec
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) collection(userID, collection string) map[string]record {
	k := key{userID, collection}
	coll, ok := s.colls[k]
	if !ok {
		coll = map[string]record{}
		s.colls[k] = coll
	}
	return coll
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (r record) document(id string) (docstore.Document, error) {
	fields, err := docstore.DecodeFields(r.fields)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(r.ts), Fields: fields}, nil
}
