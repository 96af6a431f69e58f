// Package sqlite is a docstore.Store on a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

const table = "documents"

// Open opens (or creates) the database at path with WAL journaling and
// applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer keeps SQLITE_BUSY out of concurrent background writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Store implements docstore.Store. Ties on timestamp fall back to rowid,
// which an upsert leaves untouched.
type Store struct {
	db *sql.DB
}

// DB exposes the underlying handle for health probes.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Get(ctx context.Context, userID, collection, id string) (*docstore.Document, error) {
	if err := docstore.Validate(userID, collection, id); err != nil {
		return nil, err
	}
	query, args, err := sq.Select("ts_nanos", "fields").
		From(table).
		Where(sq.Eq{"user_id": userID, "collection": collection, "doc_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var (
		ts     int64
		fields string
	)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&ts, &fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	decoded, err := docstore.DecodeFields([]byte(fields))
	if err != nil {
		return nil, err
	}
	return &docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(ts), Fields: decoded}, nil
}

func (s *Store) Query(ctx context.Context, userID, collection string) ([]docstore.Document, error) {
	if err := docstore.Validate(userID, collection, "-"); err != nil {
		return nil, err
	}
	query, args, err := sq.Select("doc_id", "ts_nanos", "fields").
		From(table).
		Where(sq.Eq{"user_id": userID, "collection": collection}).
		OrderBy("ts_nanos ASC", "rowid ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var (
			id, fields string
			ts         int64
		)
		if err := rows.Scan(&id, &ts, &fields); err != nil {
			return nil, err
		}
		decoded, err := docstore.DecodeFields([]byte(fields))
		if err != nil {
			return nil, err
		}
		out = append(out, docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(ts), Fields: decoded})
	}
	return out, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, userID, collection string, doc docstore.Document) error {
	return s.write(ctx, userID, collection, doc, "?",
		"ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET "+
			"ts_nanos = excluded.ts_nanos, fields = excluded.fields")
}

func (s *Store) Merge(ctx context.Context, userID, collection string, doc docstore.Document) error {
	return s.write(ctx, userID, collection, doc, "json_patch('{}', ?)",
		"ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET "+
			"ts_nanos = CASE WHEN excluded.ts_nanos = 0 THEN documents.ts_nanos ELSE excluded.ts_nanos END, "+
			"fields = json_patch(documents.fields, excluded.fields)")
}

// write inserts doc, wrapping the encoded fields in fieldsExpr, and resolves
// an existing row with onConflict.
func (s *Store) write(ctx context.Context, userID, collection string, doc docstore.Document, fieldsExpr, onConflict string) error {
	if err := docstore.Validate(userID, collection, doc.ID); err != nil {
		return err
	}
	fields, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	query, args, err := sq.Insert(table).
		Columns("user_id", "collection", "doc_id", "ts_nanos", "fields").
		Values(userID, collection, doc.ID, docstore.UnixNanos(doc.Timestamp), sq.Expr(fieldsExpr, string(fields))).
		Suffix(onConflict).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }
