// Package badger is an embedded docstore.Store on BadgerDB. Documents live
// under u/{user}/{collection}/{id} with each segment path-escaped.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
)

const maxConflictRetries = 5

// record is the stored value. Seq orders documents that share a timestamp.
type record struct {
	Seq    uint64          `json:"seq"`
	TS     int64           `json:"ts"`
	Fields json.RawMessage `json:"fields"`
}

// Store implements docstore.Store.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte("meta/seq"), 128)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("badger sequence: %w", err)
	}
	return &Store{db: db, seq: seq}, nil
}

func prefix(userID, collection string) []byte {
	return []byte("u/" + url.PathEscape(userID) + "/" + url.PathEscape(collection) + "/")
}

func docKey(userID, collection, id string) []byte {
	return append(prefix(userID, collection), url.PathEscape(id)...)
}

func (s *Store) Get(_ context.Context, userID, collection, id string) (*docstore.Document, error) {
	if err := docstore.Validate(userID, collection, id); err != nil {
		return nil, err
	}
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = readRecord(txn, docKey(userID, collection, id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
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
		id  string
		rec record
	}
	var rows []row
	p := prefix(userID, collection)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			id, err := url.PathUnescape(string(item.Key()[len(p):]))
			if err != nil {
				return err
			}
			var rec record
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
				return err
			}
			rows = append(rows, row{id: id, rec: rec})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b row) int {
		switch {
		case a.rec.TS < b.rec.TS:
			return -1
		case a.rec.TS > b.rec.TS:
			return 1
		case a.rec.Seq < b.rec.Seq:
			return -1
		case a.rec.Seq > b.rec.Seq:
			return 1
		}
		return 0
	})

	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.rec.document(r.id)
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
	fields, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	return s.update(docKey(userID, collection, doc.ID), func(rec *record, _ bool) error {
		rec.TS = docstore.UnixNanos(doc.Timestamp)
		rec.Fields = fields
		return nil
	})
}

func (s *Store) Merge(_ context.Context, userID, collection string, doc docstore.Document) error {
	if err := docstore.Validate(userID, collection, doc.ID); err != nil {
		return err
	}
	patchJSON, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	return s.update(docKey(userID, collection, doc.ID), func(rec *record, exists bool) error {
		base := map[string]any{}
		if exists {
			decoded, err := docstore.DecodeFields(rec.Fields)
			if err != nil {
				return err
			}
			base = decoded
		}
		patch, err := docstore.DecodeFields(patchJSON)
		if err != nil {
			return err
		}
		merged, err := docstore.EncodeFields(docstore.MergeFields(base, patch))
		if err != nil {
			return err
		}
		rec.Fields = merged
		if !doc.Timestamp.IsZero() {
			rec.TS = docstore.UnixNanos(doc.Timestamp)
		}
		return nil
	})
}

// update runs a read-modify-write on key, retrying on transaction conflicts.
// New records get the next sequence number before mutate runs.
func (s *Store) update(key []byte, mutate func(rec *record, exists bool) error) error {
	var err error
	for range maxConflictRetries {
		err = s.db.Update(func(txn *badger.Txn) error {
			rec, err := readRecord(txn, key)
			exists := err == nil
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if !exists {
				if rec.Seq, err = s.seq.Next(); err != nil {
					return err
				}
			}
			if err := mutate(&rec, exists); err != nil {
				return err
			}
			val, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			return txn.Set(key, val)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func readRecord(txn *badger.Txn, key []byte) (record, error) {
	var rec record
	item, err := txn.Get(key)
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) })
	return rec, err
}

func (r record) document(id string) (docstore.Document, error) {
	fields, err := docstore.DecodeFields(r.Fields)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(r.TS), Fields: fields}, nil
}

func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func (s *Store) Close() error {
	return errors.Join(s.seq.Release(), s.db.Close())
}
