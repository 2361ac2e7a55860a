package db

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mickamy/minitable/internal/store"
)

// AllColumns selects every column of a table.
const AllColumns = "*"

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrTableExists  = errors.New("table already exists")
)

// DB is a named catalog of in-memory tables.
// Concurrency: RWMutex guards the catalog; each table guards its own rows.
// Select is safe for any number of concurrent callers.
type DB struct {
	mu     sync.RWMutex
	name   string
	tables map[string]*store.Table
}

// New constructs an empty db.
func New(name string) *DB {
	return &DB{name: name, tables: make(map[string]*store.Table)}
}

// Name returns the database name.
func (db *DB) Name() string { return db.name }

// Create adds an empty table with the given columns.
func (db *DB) Create(name string, columns ...string) (*store.Table, error) {
	t, err := store.New(name, columns...)
	if err != nil {
		return nil, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.tables[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, name)
	}
	db.tables[name] = t
	return t, nil
}

// Table looks up a table by name.
func (db *DB) Table(name string) (*store.Table, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.tables[name]
	return t, ok
}

// Tables returns the table names in lexical order.
func (db *DB) Tables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.tables))
	for n := range db.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Schema returns the declared columns of a table.
func (db *DB) Schema(table string) ([]string, bool) {
	t, ok := db.Table(table)
	if !ok {
		return nil, false
	}
	return t.Columns(), true
}

// Select projects columns out of table. columns is either AllColumns or a
// comma-separated list of column names.
func (db *DB) Select(columns, table string) (store.Result, error) {
	t, ok := db.Table(table)
	if !ok {
		return store.Result{}, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return t.Project(SplitColumns(columns)...)
}

// SplitColumns turns "a,b" into ["a" "b"]. AllColumns yields nil.
func SplitColumns(columns string) []string {
	if columns == AllColumns {
		return nil
	}
	parts := strings.Split(columns, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
