// Copyright 2026 ETH Zurich
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

// Package sqlite implements the AS store on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/netip"
	"sort"
	"sync"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/db"
	"github.com/netsec-ethz/scion-web/private/topology"
)

var _ asdb.DB = (*Backend)(nil)

// Backend is the SQLite backed AS store. Reads outside of a transaction use
// the read connection pool, writes go through the single write connection.
// While a transaction is open, writes on the Backend block until it ends.
type Backend struct {
	db *db.Sqlite
	*executor
}

// New returns a new SQLite backend opening a database at the given path. If
// no database exists a new database is created. If the schema version of the
// stored database is different from the one in schema.go, an error is returned.
func New(path string) (*Backend, error) {
	return NewWithConfig(path, nil)
}

// NewWithConfig is like New but configures the connection pools.
func NewWithConfig(path string, cfg *db.SqliteConfig) (*Backend, error) {
	sqlite, err := db.NewSqlite(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Setup(Schema, SchemaVersion); err != nil {
		_ = sqlite.Close()
		return nil, err
	}
	return &Backend{
		db: sqlite,
		executor: &executor{
			reader: sqlite.ReadOnly,
			full:   sqlite.Full,
		},
	}, nil
}

// DB returns the write connection pool.
func (b *Backend) DB() *sql.DB {
	return b.db.Full
}

// BeginTransaction begins a transaction on the write connection.
func (b *Backend) BeginTransaction(ctx context.Context,
	opts *sql.TxOptions) (asdb.Transaction, error) {

	tx, err := b.db.Full.BeginTx(ctx, opts)
	if err != nil {
		return nil, db.NewTxError("create tx", err)
	}
	return &transaction{
		executor: &executor{
			reader: tx,
			tx:     tx,
		},
		tx: tx,
	}, nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

var _ asdb.Transaction = (*transaction)(nil)

type transaction struct {
	*executor
	tx *sql.Tx
}

func (tx *transaction) Commit() error {
	tx.Lock()
	defer tx.Unlock()
	if err := tx.tx.Commit(); err != nil {
		return db.NewTxError("commit", err)
	}
	return nil
}

func (tx *transaction) Rollback() error {
	tx.Lock()
	defer tx.Unlock()
	if err := tx.tx.Rollback(); err != nil {
		return db.NewTxError("rollback", err)
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqler interface {
	querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var _ asdb.ReadWrite = (*executor)(nil)

type executor struct {
	sync.RWMutex
	reader querier
	// full is set for the backend, tx for a transaction.
	full *sql.DB
	tx   *sql.Tx
}

// inTx runs action in the transaction of the executor, or in a new
// transaction on the write connection if the executor has none.
func (e *executor) inTx(ctx context.Context, action func(tx sqler) error) error {
	if e.tx != nil {
		return action(e.tx)
	}
	tx, err := e.full.BeginTx(ctx, nil)
	if err != nil {
		return db.NewTxError("create tx", err)
	}
	if err := action(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return db.NewTxError("commit", err)
	}
	return nil
}

func (e *executor) ASes(ctx context.Context) ([]asdb.AS, error) {
	e.RLock()
	defer e.RUnlock()
	query := `
		SELECT a.IsdID, a.AsID, a.IsCore,
			(SELECT COUNT(*) FROM border_routers r WHERE r.ASRowID = a.RowID)
		FROM ases a
		ORDER BY a.IsdID, a.AsID`
	rows, err := e.reader.QueryContext(ctx, query)
	if err != nil {
		return nil, db.NewReadError("selecting ASes", err)
	}
	defer rows.Close()
	var ases []asdb.AS
	for rows.Next() {
		var isd, as int64
		var entry asdb.AS
		if err := rows.Scan(&isd, &as, &entry.Core, &entry.Routers); err != nil {
			return nil, db.NewReadError("scanning AS", err)
		}
		ia, err := addr.IAFrom(addr.ISD(isd), addr.AS(as))
		if err != nil {
			return nil, db.NewDataError("invalid ISD-AS", err, "isd", isd, "as", as)
		}
		entry.IA = ia
		ases = append(ases, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating ASes", err)
	}
	return ases, nil
}

func (e *executor) Topology(ctx context.Context, ia addr.IA) (*topology.Topology, error) {
	e.RLock()
	defer e.RUnlock()
	return generateTopology(ctx, e.reader, ia)
}

func (e *executor) FillFromTopology(ctx context.Context,
	topo *topology.Topology, clear bool) error {

	if topo == nil || topo.BorderRouters == nil {
		return db.NewInputDataError("invalid topology", topology.ErrMissingBorderRouters)
	}
	raw, err := topology.Encode(topo)
	if err != nil {
		return db.NewInputDataError("encoding topology", err, "ia", topo.IA())
	}
	e.Lock()
	defer e.Unlock()
	return e.inTx(ctx, func(tx sqler) error {
		return fillFromTopology(ctx, tx, topo, raw, clear)
	})
}

func (e *executor) DeleteAS(ctx context.Context, ia addr.IA) (int, error) {
	e.Lock()
	defer e.Unlock()
	var n int
	err := e.inTx(ctx, func(tx sqler) error {
		asRow, err := asRowID(ctx, tx, ia)
		if errors.Is(err, asdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := deleteRouters(ctx, tx, asRow, nil); err != nil {
			return err
		}
		if err := deleteServices(ctx, tx, asRow, nil, nil); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ases WHERE RowID = ?`, asRow); err != nil {
			return db.NewWriteError("deleting AS", err, "ia", ia)
		}
		n = 1
		return nil
	})
	return n, err
}

func (e *executor) Addresses(ctx context.Context) ([]netip.Addr, error) {
	e.RLock()
	defer e.RUnlock()
	query := `
		SELECT Addr FROM border_router_addresses
		UNION ALL SELECT Addr FROM border_router_interfaces
		UNION ALL SELECT BindAddr FROM border_router_interfaces WHERE BindAddr IS NOT NULL
		UNION ALL SELECT Addr FROM service_addresses`
	rows, err := e.reader.QueryContext(ctx, query)
	if err != nil {
		return nil, db.NewReadError("selecting addresses", err)
	}
	defer rows.Close()
	var addrs []netip.Addr
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, db.NewReadError("scanning address", err)
		}
		a, err := netip.ParseAddr(raw)
		if err != nil {
			continue
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating addresses", err)
	}
	return addrs, nil
}

func asRowID(ctx context.Context, q querier, ia addr.IA) (int64, error) {
	var rowID int64
	err := q.QueryRowContext(ctx, `SELECT RowID FROM ases WHERE IsdID = ? AND AsID = ?`,
		int64(ia.ISD()), int64(ia.AS())).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNotFound(ia)
	}
	if err != nil {
		return 0, db.NewReadError("selecting AS", err, "ia", ia)
	}
	return rowID, nil
}

func sortedKinds(services map[string]map[string]*topology.Service) []string {
	kinds := make([]string, 0, len(services))
	for kind := range services {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
