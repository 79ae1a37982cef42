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

// Package asdb defines the store of the administered ASes. For every AS the
// store keeps the topology it was created from plus one record per border
// router, border router address, border router interface, service and
// service address. The topology of an AS is regenerated from these records.
package asdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/netip"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// ErrNotFound indicates that the requested AS is not in the store.
var ErrNotFound = errors.New("AS not found")

// AS is the summary of a stored AS.
type AS struct {
	IA      addr.IA
	Core    bool
	Routers int
}

// ReadWrite is the read and write interface of the store.
type ReadWrite interface {
	// ASes returns all stored ASes ordered by ISD-AS.
	ASes(ctx context.Context) ([]AS, error)
	// Topology generates the topology of ia from the stored records. Unknown
	// top-level keys of the stored topology are preserved. It returns
	// ErrNotFound if ia is not stored.
	Topology(ctx context.Context, ia addr.IA) (*topology.Topology, error)
	// FillFromTopology stores topo. With clear set, all border router and
	// service records of the AS are replaced. Otherwise only the records of
	// the routers and services named in topo are replaced and the others are
	// kept.
	FillFromTopology(ctx context.Context, topo *topology.Topology, clear bool) error
	// DeleteAS removes ia and all its records. It returns the number of
	// deleted ASes.
	DeleteAS(ctx context.Context, ia addr.IA) (int, error)
	// Addresses returns the local addresses of all border routers, their
	// interfaces and all services, bind addresses included. Remote ends and
	// records that do not hold an IP address are skipped.
	Addresses(ctx context.Context) ([]netip.Addr, error)
}

// Transaction is a transaction on the store.
type Transaction interface {
	ReadWrite
	Commit() error
	Rollback() error
}

// DB is the AS store.
type DB interface {
	ReadWrite
	BeginTransaction(ctx context.Context, opts *sql.TxOptions) (Transaction, error)
	io.Closer
}
