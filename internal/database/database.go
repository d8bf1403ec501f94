package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Dialect identifies the SQL engine behind a Database.
type Dialect int

const (
	// DialectPostgres uses $n placeholders and advisory locks.
	DialectPostgres Dialect = iota
	// DialectSQLite uses ? placeholders.
	DialectSQLite
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Database wraps a database/sql handle. Postgres handles are backed by a pgx
// pool; SQLite handles use the pure Go driver.
type Database struct {
	DB      *sql.DB
	Dialect Dialect

	pool  *pgxpool.Pool
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New wraps an existing handle. It is used by tests with sqlmock.
func New(db *sql.DB, dialect Dialect) *Database {
	return &Database{DB: db, Dialect: dialect}
}

// Rebind rewrites ? placeholders into the dialect's placeholder syntax.
// Queries must not contain a literal question mark.
func (db *Database) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the handle and, for postgres, the underlying pool.
func (db *Database) Close() {
	if db.DB != nil {
		db.DB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// Stats returns connection statistics of the database/sql handle.
func (db *Database) Stats() sql.DBStats {
	return db.DB.Stats()
}

// PoolStats returns pgx pool statistics, or nil for non-postgres handles.
func (db *Database) PoolStats() *pgxpool.Stat {
	if db.pool == nil {
		return nil
	}
	return db.pool.Stat()
}

// lockFor returns the in-process mutex guarding writes to one entity kind.
func (db *Database) lockFor(name string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.locks == nil {
		db.locks = make(map[string]*sync.Mutex)
	}
	l, ok := db.locks[name]
	if !ok {
		l = &sync.Mutex{}
		db.locks[name] = l
	}
	return l
}
