package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
)

// keySeparator joins multi-column natural keys into one comparable string.
const keySeparator = "\x1f"

// ReconcileResult lists the natural keys a reconcile inserted and deleted.
// Multi-column keys are joined with JoinKey.
type ReconcileResult struct {
	Added   []string
	Deleted []string
}

// JoinKey joins the parts of a natural key.
func JoinKey(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

// SplitKey reverses JoinKey.
func SplitKey(key string) []string {
	return strings.Split(key, keySeparator)
}

type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// tableSpec describes how one record type maps to its table.
type tableSpec[T any] struct {
	table string
	// keys are the natural key columns, columns the remaining ones except
	// updated_at.
	keys    []string
	columns []string
	// scope optionally names a key column that partitions snapshots, so that
	// reconciling one partition never deletes rows of another.
	scope string
	// orderBy is the stable order of find-all queries.
	orderBy string

	// values returns keys then columns in declaration order.
	values func(T) []any
	key    func(T) string
	// scan reads keys, columns then updated_at.
	scan func(scanner) (T, error)
}

func (s tableSpec[T]) selectList() string {
	cols := append(append(append([]string{}, s.keys...), s.columns...), "updated_at")
	return strings.Join(cols, ", ")
}

func (s tableSpec[T]) upsertSQL() string {
	all := append(append(append([]string{}, s.keys...), s.columns...), "updated_at")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")

	sets := make([]string, 0, len(s.columns)+1)
	for _, c := range append(append([]string{}, s.columns...), "updated_at") {
		sets = append(sets, c+" = excluded."+c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		s.table, strings.Join(all, ", "), placeholders, strings.Join(s.keys, ", "), strings.Join(sets, ", "))
}

func (s tableSpec[T]) keyWhere() string {
	conds := make([]string, len(s.keys))
	for i, k := range s.keys {
		conds[i] = k + " = ?"
	}
	return strings.Join(conds, " AND ")
}

// store implements the shared persistence operations over one table.
type store[T any] struct {
	db   *database.Database
	spec tableSpec[T]
}

func newStore[T any](db *database.Database, spec tableSpec[T]) *store[T] {
	return &store[T]{db: db, spec: spec}
}

func (s *store[T]) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *apierrors.PersistenceError
	if stderrors.As(err, &pe) {
		return err
	}
	return &apierrors.PersistenceError{Op: op, Entity: s.spec.table, Err: err}
}

func (s *store[T]) upsertAll(ctx context.Context, q queryer, batch []T, updatedAt time.Time) error {
	query := s.db.Rebind(s.spec.upsertSQL())
	for i, rec := range batch {
		args := append(s.spec.values(rec), updatedAt)
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("row %d (%s): %w", i, s.spec.key(rec), err)
		}
	}
	return nil
}

// Upsert writes batch in one transaction. Rows are applied in order, so a
// later duplicate key overwrites an earlier one.
func (s *store[T]) Upsert(ctx context.Context, batch []T, updatedAt time.Time) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return s.upsertAll(ctx, tx, batch, updatedAt)
	})
	return s.fail("upsert", err)
}

// reconcile makes the table (or one scope partition of it) hold exactly the
// keys of batch. The key read, upsert and stale delete share one locked
// transaction.
func (s *store[T]) reconcile(ctx context.Context, scopeValue string, batch []T, updatedAt time.Time) (ReconcileResult, error) {
	lockName := s.spec.table
	if s.spec.scope != "" {
		lockName += ":" + scopeValue
	}

	var result ReconcileResult
	err := s.db.WithLockedTx(ctx, lockName, func(tx *sql.Tx) error {
		current, err := s.keys(ctx, tx, scopeValue)
		if err != nil {
			return err
		}

		if err := s.upsertAll(ctx, tx, batch, updatedAt); err != nil {
			return err
		}

		seen := make(map[string]bool, len(batch))
		for _, rec := range batch {
			k := s.spec.key(rec)
			if !seen[k] && !current[k] {
				result.Added = append(result.Added, k)
			}
			seen[k] = true
		}

		for k := range current {
			if !seen[k] {
				result.Deleted = append(result.Deleted, k)
			}
		}
		sort.Strings(result.Deleted)

		for _, k := range result.Deleted {
			if err := s.deleteKey(ctx, tx, SplitKey(k)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ReconcileResult{}, s.fail("reconcile", err)
	}
	return result, nil
}

func (s *store[T]) keys(ctx context.Context, q queryer, scopeValue string) (map[string]bool, error) {
	query := "SELECT " + strings.Join(s.spec.keys, ", ") + " FROM " + s.spec.table
	var args []any
	if s.spec.scope != "" {
		query += " WHERE " + s.spec.scope + " = ?"
		args = append(args, scopeValue)
	}

	rows, err := q.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read current keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		parts := make([]string, len(s.spec.keys))
		dest := make([]any, len(parts))
		for i := range parts {
			dest[i] = &parts[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys[JoinKey(parts...)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}

func (s *store[T]) deleteKey(ctx context.Context, q queryer, parts ...string) error {
	query := s.db.Rebind("DELETE FROM " + s.spec.table + " WHERE " + s.spec.keyWhere())
	args := make([]any, len(parts))
	for i, p := range parts {
		args[i] = p
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", strings.Join(parts, "/"), err)
	}
	return nil
}

// delete removes one row by its key values.
func (s *store[T]) delete(ctx context.Context, keyArgs ...any) error {
	query := s.db.Rebind("DELETE FROM " + s.spec.table + " WHERE " + s.spec.keyWhere())
	_, err := s.db.DB.ExecContext(ctx, query, keyArgs...)
	return s.fail("delete", err)
}

// find returns every row matching where (may be empty), in the spec's order.
func (s *store[T]) find(ctx context.Context, where string, args ...any) ([]T, error) {
	query := "SELECT " + s.spec.selectList() + " FROM " + s.spec.table
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + s.spec.orderBy

	rows, err := s.db.DB.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, s.fail("find", err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		rec, err := s.spec.scan(rows)
		if err != nil {
			return nil, s.fail("find", fmt.Errorf("failed to scan row: %w", err))
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("find", err)
	}
	return results, nil
}

// findOne returns the row matching the key, or nil, nil if there is none.
func (s *store[T]) findOne(ctx context.Context, keyArgs ...any) (*T, error) {
	query := "SELECT " + s.spec.selectList() + " FROM " + s.spec.table + " WHERE " + s.spec.keyWhere()
	rec, err := s.spec.scan(s.db.DB.QueryRowContext(ctx, s.db.Rebind(query), keyArgs...))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.fail("find", err)
	}
	return &rec, nil
}

// lastUpdated returns the newest updated_at, or nil for an empty table.
func (s *store[T]) lastUpdated(ctx context.Context) (*time.Time, error) {
	query := "SELECT updated_at FROM " + s.spec.table + " ORDER BY updated_at DESC LIMIT 1"
	var t time.Time
	if err := s.db.DB.QueryRowContext(ctx, query).Scan(&t); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.fail("last updated", err)
	}
	t = t.UTC()
	return &t, nil
}

func (s *store[T]) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.spec.table).Scan(&n)
	return n, s.fail("count", err)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := utcDate(n.Time)
	return &t
}

// utcDate drops the clock part. Dates are stored as UTC midnights, but
// engines may hand them back in another location.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	b := n.Bool
	return &b
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}
