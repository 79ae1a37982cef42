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

package adconnect

import (
	"context"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
)

// Linker links ASes that are kept in the AS store.
type Linker struct {
	// AllocatorOptions configure the allocator of every linking session.
	AllocatorOptions []ipalloc.Option
	Metrics          *Metrics
}

// LinkASes links the ASes a and b in the store. The caller holds the write
// transaction tx for the whole session: the allocator is seeded from the
// addresses visible in tx and both updated topologies are written back
// through tx, replacing the previous records of the two ASes. The caller
// commits or rolls back.
func (l Linker) LinkASes(
	ctx context.Context,
	tx asdb.Transaction,
	a, b addr.IA,
	ct ConnectionType,
) (err error) {

	defer func() { l.Metrics.observeLink(ct, err) }()
	if tx == nil {
		return serrors.New("linking requires a transaction")
	}
	if a == b {
		return serrors.New("cannot link AS to itself", "ia", a)
	}
	topoA, err := tx.Topology(ctx, a)
	if err != nil {
		return serrors.Wrap("reading topology", err, "ia", a)
	}
	topoB, err := tx.Topology(ctx, b)
	if err != nil {
		return serrors.Wrap("reading topology", err, "ia", b)
	}
	newA, newB, err := LinkTopologiesWithSource(ctx, topoA, topoB, ct, tx,
		l.Metrics.allocatorOptions(l.AllocatorOptions)...)
	if err != nil {
		return err
	}
	if err := tx.FillFromTopology(ctx, newA, true); err != nil {
		return serrors.Wrap("storing topology", err, "ia", a)
	}
	if err := tx.FillFromTopology(ctx, newB, true); err != nil {
		return serrors.Wrap("storing topology", err, "ia", b)
	}
	log.FromCtx(ctx).Info("Linked ASes", "a", a, "b", b, "type", ct)
	return nil
}

// Link runs LinkASes in a new write transaction on db and commits it.
func (l Linker) Link(
	ctx context.Context,
	db asdb.DB,
	a, b addr.IA,
	ct ConnectionType,
) error {

	tx, err := db.BeginTransaction(ctx, nil)
	if err != nil {
		return serrors.Wrap("starting transaction", err)
	}
	if err := l.LinkASes(ctx, tx, a, b, ct); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.FromCtx(ctx).Error("Rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit()
}
