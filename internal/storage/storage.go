// Package storage contains storage-agnostic contracts for the optional
// database sink and a registry of concrete backends. Backends register
// themselves in init via Register; importing the storage/all package (even as
// a blank import) makes every built-in backend available at runtime.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string (file path or file: URI for
	// sqlite, pgxpool URL for postgres).
	DSN string

	// WideTable and LongTable are the destination table names.
	WideTable string
	LongTable string

	// AutoCreateTable creates the destination tables before loading.
	AutoCreateTable bool
}

// Repository is the minimal contract a database sink must provide. The
// pipeline only bulk-loads two small tables, so the surface is a bulk insert
// plus DDL execution.
type Repository interface {
	// Exec executes an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// CopyFrom inserts rows (aligned to the columns order) into table using
	// the backend's most efficient bulk primitive, returning the number of
	// rows inserted.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection resources.
	Close()
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var factories = map[string]Factory{}

// Register installs a backend factory under kind. Backends call Register
// from init; a duplicate registration is a programming error and panics.
func Register(kind string, f Factory) {
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: backend %q registered twice", kind))
	}
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Unknown kinds report the registered
// kinds so a missing blank import is easy to diagnose.
func New(ctx context.Context, cfg Config) (Repository, error) {
	f, ok := factories[cfg.Kind]
	if !ok {
		known := make([]string, 0, len(factories))
		for k := range factories {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %s)", cfg.Kind, strings.Join(known, ", "))
	}
	return f(ctx, cfg)
}
