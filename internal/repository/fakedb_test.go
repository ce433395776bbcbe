package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"skillswap/internal/database"
)

// fakeDB is a scripted database.DB. Every statement, inside a transaction or
// not, is recorded in order and answered by the exec and queryRow hooks.
type fakeDB struct {
	mu        sync.Mutex
	stmts     []string
	begins    int
	commits   int
	rollbacks int

	exec     func(query string, args []any) (int64, error)
	queryRow func(query string, args []any) database.Row
}

func (f *fakeDB) record(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stmts = append(f.stmts, query)
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.record(query)
	if f.exec == nil {
		return 0, nil
	}
	return f.exec(query, args)
}

func (f *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	f.record(query)
	return nil, errors.New("fakeDB: Query not scripted")
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	f.record(query)
	if f.queryRow == nil {
		return fakeRow{err: sql.ErrNoRows}
	}
	return f.queryRow(query, args)
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begins++
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	db   *fakeDB
	done bool
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return t.db.Exec(ctx, query, args...)
}

func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, query, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.db.QueryRow(ctx, query, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	t.done = true
	return nil
}

// Rollback after Commit is a no-op, as with pgx.
func (t *fakeTx) Rollback(context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if !t.done {
		t.db.rollbacks++
		t.done = true
	}
	return nil
}

// fakeRow scans vals into dest positionally. A nil value leaves the
// destination at its zero value.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("fakeRow: %d destinations for %d values", len(dest), len(r.vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}
