// Package postgres is a docstore.Store on PostgreSQL through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

const table = "documents"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open connects with the pgx stdlib driver, verifies connectivity and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
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
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Store implements docstore.Store. Ties on timestamp fall back to the
// bigserial seq assigned on first insert.
type Store struct {
	db *sql.DB
}

// DB exposes the underlying handle for health probes.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Get(ctx context.Context, userID, collection, id string) (*docstore.Document, error) {
	if err := docstore.Validate(userID, collection, id); err != nil {
		return nil, err
	}
	query, args, err := psql.Select("ts_nanos", "fields").
		From(table).
		Where(sq.Eq{"user_id": userID, "collection": collection, "doc_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var (
		ts     int64
		fields []byte
	)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&ts, &fields); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	decoded, err := docstore.DecodeFields(fields)
	if err != nil {
		return nil, err
	}
	return &docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(ts), Fields: decoded}, nil
}

func (s *Store) Query(ctx context.Context, userID, collection string) ([]docstore.Document, error) {
	if err := docstore.Validate(userID, collection, "-"); err != nil {
		return nil, err
	}
	query, args, err := psql.Select("doc_id", "ts_nanos", "fields").
		From(table).
		Where(sq.Eq{"user_id": userID, "collection": collection}).
		OrderBy("ts_nanos ASC", "seq ASC").
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
			id     string
			ts     int64
			fields []byte
		)
		if err := rows.Scan(&id, &ts, &fields); err != nil {
			return nil, err
		}
		decoded, err := docstore.DecodeFields(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, docstore.Document{ID: id, Timestamp: docstore.FromUnixNanos(ts), Fields: decoded})
	}
	return out, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, userID, collection string, doc docstore.Document) error {
	return s.write(ctx, userID, collection, doc, "?::jsonb",
		"ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET "+
			"ts_nanos = EXCLUDED.ts_nanos, fields = EXCLUDED.fields")
}

func (s *Store) Merge(ctx context.Context, userID, collection string, doc docstore.Document) error {
	return s.write(ctx, userID, collection, doc, "jsonb_strip_nulls(?::jsonb)",
		"ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET "+
			"ts_nanos = CASE WHEN EXCLUDED.ts_nanos = 0 THEN documents.ts_nanos ELSE EXCLUDED.ts_nanos END, "+
			"fields = jsonb_strip_nulls(documents.fields || ?::jsonb)")
}

// write inserts doc with its encoded fields wrapped in fieldsExpr. A "?" in
// onConflict is bound to the same encoded fields.
func (s *Store) write(ctx context.Context, userID, collection string, doc docstore.Document, fieldsExpr, onConflict string) error {
	if err := docstore.Validate(userID, collection, doc.ID); err != nil {
		return err
	}
	encoded, err := docstore.EncodeFields(doc.Fields)
	if err != nil {
		return err
	}
	fields := string(encoded)
	var suffixArgs []any
	for range strings.Count(onConflict, "?") {
		suffixArgs = append(suffixArgs, fields)
	}
	query, args, err := psql.Insert(table).
		Columns("user_id", "collection", "doc_id", "ts_nanos", "fields").
		Values(userID, collection, doc.ID, docstore.UnixNanos(doc.Timestamp), sq.Expr(fieldsExpr, fields)).
		Suffix(onConflict, suffixArgs...).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }
