// Copyright 2025 ETH Zurich, Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

type Reader interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Stats() sql.DBStats
}

// SqliteConfig allows configuring the sqlite database instance.
type SqliteConfig struct {
	MaxOpenReadConns int
	MaxIdleReadConns int
	InMemory         bool
}

// NewSqlite creates a new sqlite database with a read and write connection pool. The write
// connection pool is limited to one open connection to avoid contention. The read connection pool
// is configured with a sane default limit depending on the number of CPUs (can be overridden via
// config).
//
// The [Sqlite.Full] connection can be used to perform any operation, including reads and
// opening transactions. The [Sqlite.ReadOnly] connection should only be used for read
// operations. Read-only transactions are currently not supported.
//
// The driver is modernc.org/sqlite by default and github.com/mattn/go-sqlite3 when built with
// the sqlite_mattn tag.
func NewSqlite(path string, cfg *SqliteConfig) (*Sqlite, error) {
	c := func() SqliteConfig {
		if cfg != nil {
			return *cfg
		}
		return SqliteConfig{}
	}()

	// :memory: is ambiguous. With the combination of shared cache and in-memory, multiple
	// connections can access the same database, violating the expectation that there is a read pool
	// with max open connections of 1.
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("use explicitly named memory database", "path", path)
	}
	noFile, ok := strings.CutPrefix(path, "file:")

	connParams := make(url.Values)
	addPragmas(connParams)
	// Use shared cache for in-memory databases to allow multiple connections.
	if c.InMemory {
		registerMemoryDB(noFile)
		connParams.Add("mode", "memory")
		// Use shared cache such that the read and write connections share the same
		// in-memory database.
		connParams.Add("cache", "shared")
	}

	// Construct the connection URL.
	connUrl := path + "?" + connParams.Encode()
	if !ok {
		connUrl = "file:" + connUrl
	}

	write, err := sql.Open(driverName(), connUrl)
	if err != nil {
		return nil, serrors.Wrap("opening write database", err, "path", path)
	}
	write.SetMaxOpenConns(1)

	read, err := sql.Open(driverName(), connUrl)
	if err != nil {
		defer write.Close()
		return nil, serrors.Wrap("opening read database", err, "path", path)
	}

	// Set max open and idle connections for read DB.
	{
		if c.MaxOpenReadConns == 0 {
			c.MaxOpenReadConns = max(4, runtime.NumCPU())
		}
		read.SetMaxOpenConns(c.MaxOpenReadConns)

		if c.MaxIdleReadConns != 0 {
			read.SetMaxIdleConns(c.MaxIdleReadConns)
		}
	}

	db := &Sqlite{
		Full:     write,
		ReadOnly: read,
	}
	if c.InMemory {
		runtime.AddCleanup(db, func(name string) { unregisterMemoryDB(name) }, noFile)
	}
	return db, nil
}

// Sqlite bundles the write and the read connection pool of one database.
type Sqlite struct {
	Full     *sql.DB
	ReadOnly Reader
}

// Setup applies schema to a fresh database and stamps it with schemaVersion.
// An existing database must already carry schemaVersion.
func (db *Sqlite) Setup(schema string, schemaVersion int) error {
	// Check the schema version and set up new DB if necessary.
	var existingVersion int
	if err := db.Full.QueryRow("PRAGMA user_version;").Scan(&existingVersion); err != nil {
		return serrors.Wrap("checking database schema version", err)
	}
	switch {
	case existingVersion == 0:
		_, err := db.Full.Exec(schema)
		if err != nil {
			return serrors.Wrap("applying schema", err)
		}
		// Write schema version to database.
		_, err = db.Full.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
		if err != nil {
			return serrors.Wrap("writing schema version", err)
		}
		return nil
	case existingVersion != schemaVersion:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "actual", existingVersion)
	default:
		return nil
	}
}

// Close closes both connection pools.
func (db *Sqlite) Close() error {
	var errs serrors.List

	if err := db.Full.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing write db", err))
	}
	if err := db.ReadOnly.(*sql.DB).Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing read db", err))
	}
	return errs.ToError()
}

// memoryDBCheck is a safety mechanism to prevent multiple in-memory databases with the same
// name. Such databases would share the same underlying database, leading to unexpected behavior in
// tests.
var memoryDBCheck = struct {
	mtx sync.Mutex
	dbs map[string]struct{}
}{
	dbs: make(map[string]struct{}),
}

func registerMemoryDB(name string) {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	if _, ok := memoryDBCheck.dbs[name]; ok {
		panic(fmt.Sprintf("memory database with name %s already exists", name))
	}
	memoryDBCheck.dbs[name] = struct{}{}
}

func unregisterMemoryDB(name string) {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	delete(memoryDBCheck.dbs, name)
}
