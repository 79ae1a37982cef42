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

package asdb

import (
	"context"
	"database/sql"
	"errors"
	"net/netip"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	dblib "github.com/netsec-ethz/scion-web/private/storage/db"
	"github.com/netsec-ethz/scion-web/private/topology"
)

const (
	promOpASes       = "ases"
	promOpTopology   = "topology"
	promOpFill       = "fill_from_topology"
	promOpDeleteAS   = "delete_as"
	promOpAddresses  = "addresses"
	promOpBeginTx    = "tx_begin"
	promOpCommitTx   = "tx_commit"
	promOpRollbackTx = "tx_rollback"
)

// Metrics are the metrics of an instrumented store. QueriesTotal is labeled
// with the operation and the result.
type Metrics struct {
	QueriesTotal metrics.Counter
}

func (m *Metrics) observe(ctx context.Context, op string, action func(context.Context) error) {
	if m == nil {
		_ = action(ctx)
		return
	}
	err := action(ctx)
	label := dblib.ErrToMetricLabel(err)
	if errors.Is(err, ErrNotFound) {
		label = prom.ErrNotFound
	}
	metrics.CounterInc(metrics.CounterWith(m.QueriesTotal,
		prom.LabelOperation, op,
		prom.LabelResult, label,
	))
}

// WrapDB returns a store that counts the queries on db.
func WrapDB(db DB, m *Metrics) DB {
	return &metricsDB{
		metricsExecutor: &metricsExecutor{rw: db, metrics: m},
		db:              db,
	}
}

type metricsDB struct {
	*metricsExecutor
	db DB
}

func (d *metricsDB) BeginTransaction(ctx context.Context,
	opts *sql.TxOptions) (Transaction, error) {

	var tx Transaction
	var err error
	d.metrics.observe(ctx, promOpBeginTx, func(ctx context.Context) error {
		tx, err = d.db.BeginTransaction(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &metricsTransaction{
		metricsExecutor: &metricsExecutor{rw: tx, metrics: d.metrics},
		tx:              tx,
		ctx:             ctx,
	}, nil
}

func (d *metricsDB) Close() error {
	return d.db.Close()
}

type metricsTransaction struct {
	*metricsExecutor
	tx  Transaction
	ctx context.Context
}

func (t *metricsTransaction) Commit() error {
	var err error
	t.metrics.observe(t.ctx, promOpCommitTx, func(_ context.Context) error {
		err = t.tx.Commit()
		return err
	})
	return err
}

func (t *metricsTransaction) Rollback() error {
	var err error
	t.metrics.observe(t.ctx, promOpRollbackTx, func(_ context.Context) error {
		err = t.tx.Rollback()
		return err
	})
	return err
}

type metricsExecutor struct {
	rw      ReadWrite
	metrics *Metrics
}

func (e *metricsExecutor) ASes(ctx context.Context) ([]AS, error) {
	var ases []AS
	var err error
	e.metrics.observe(ctx, promOpASes, func(ctx context.Context) error {
		ases, err = e.rw.ASes(ctx)
		return err
	})
	return ases, err
}

func (e *metricsExecutor) Topology(ctx context.Context,
	ia addr.IA) (*topology.Topology, error) {

	var topo *topology.Topology
	var err error
	e.metrics.observe(ctx, promOpTopology, func(ctx context.Context) error {
		topo, err = e.rw.Topology(ctx, ia)
		return err
	})
	return topo, err
}

func (e *metricsExecutor) FillFromTopology(ctx context.Context,
	topo *topology.Topology, clear bool) error {

	var err error
	e.metrics.observe(ctx, promOpFill, func(ctx context.Context) error {
		err = e.rw.FillFromTopology(ctx, topo, clear)
		return err
	})
	return err
}

func (e *metricsExecutor) DeleteAS(ctx context.Context, ia addr.IA) (int, error) {
	var n int
	var err error
	e.metrics.observe(ctx, promOpDeleteAS, func(ctx context.Context) error {
		n, err = e.rw.DeleteAS(ctx, ia)
		return err
	})
	return n, err
}

func (e *metricsExecutor) Addresses(ctx context.Context) ([]netip.Addr, error) {
	var addrs []netip.Addr
	var err error
	e.metrics.observe(ctx, promOpAddresses, func(ctx context.Context) error {
		addrs, err = e.rw.Addresses(ctx)
		return err
	})
	return addrs, err
}
