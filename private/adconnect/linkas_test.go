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

package adconnect_test

import (
	"context"
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	"github.com/netsec-ethz/scion-web/pkg/private/xtest"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/dbtest"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/sqlite"
)

var (
	ia110 = xtest.MustParseIA("1-ff00:0:110")
	ia120 = xtest.MustParseIA("1-ff00:0:120")
)

func newStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "asdb.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	require.NoError(t, db.FillFromTopology(ctx, dbtest.Topology(ia110, 1), true))
	require.NoError(t, db.FillFromTopology(ctx, dbtest.Topology(ia120, 2), true))
	return db
}

func TestLinkASes(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	db := newStore(t)
	before, err := db.Addresses(ctx)
	require.NoError(t, err)

	linker := adconnect.Linker{
		AllocatorOptions: []ipalloc.Option{ipalloc.WithRange(ipalloc.MustParseRange("10.0.0.0/8"))},
	}
	require.NoError(t, linker.Link(ctx, db, ia110, ia120, adconnect.CoreCore))

	topoA, err := db.Topology(ctx, ia110)
	require.NoError(t, err)
	topoB, err := db.Topology(ctx, ia120)
	require.NoError(t, err)

	// Router 2 has the highest internal address and serves as template.
	brA, brB := topoA.BorderRouters["3"], topoB.BorderRouters["3"]
	require.NotNil(t, brA)
	require.NotNil(t, brB)
	internalA, ok := brA.InternalPublic()
	require.True(t, ok)
	assert.Equal(t, "10.2.0.103", internalA.Addr)
	assert.Equal(t, 31042, internalA.L4Port)

	intfA, intfB := brA.Interfaces["0"], brB.Interfaces["0"]
	require.NotNil(t, intfA)
	require.NotNil(t, intfB)
	assert.Equal(t, ia120, intfA.ISDAS)
	assert.Equal(t, ia110, intfB.ISDAS)
	assert.Equal(t, intfB.Public, intfA.Remote)
	assert.Equal(t, intfA.Public, intfB.Remote)
	assert.Len(t, topoA.BorderRouters, 3)
	assert.Len(t, topoB.BorderRouters, 3)

	// A second link must not reuse any address.
	require.NoError(t, linker.Link(ctx, db, ia120, ia110, adconnect.PeerPeer))
	after, err := db.Addresses(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+8)
	seen := make(map[netip.Addr]struct{})
	for _, a := range after {
		_, dup := seen[a]
		assert.False(t, dup, "duplicate address %s", a)
		seen[a] = struct{}{}
	}
}

func TestLinkASesRollback(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	db := newStore(t)
	testCases := map[string]struct {
		A, B      addr.IA
		Type      adconnect.ConnectionType
		Assertion assert.ErrorAssertionFunc
	}{
		"unknown AS": {
			A: ia110, B: xtest.MustParseIA("1-ff00:0:130"), Type: adconnect.CoreCore,
			Assertion: func(t assert.TestingT, err error, _ ...any) bool {
				return assert.ErrorIs(t, err, asdb.ErrNotFound)
			},
		},
		"invalid type": {
			A: ia110, B: ia120, Type: "SIBLING",
			Assertion: func(t assert.TestingT, err error, _ ...any) bool {
				return assert.ErrorIs(t, err, adconnect.ErrInvalidLinkType)
			},
		},
		"self link": {
			A: ia110, B: ia110, Type: adconnect.CoreCore,
			Assertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := adconnect.Linker{}.Link(ctx, db, tc.A, tc.B, tc.Type)
			tc.Assertion(t, err)
			for _, ia := range []addr.IA{ia110, ia120} {
				topo, err := db.Topology(ctx, ia)
				require.NoError(t, err)
				assert.Len(t, topo.BorderRouters, 2)
			}
		})
	}
}

func TestLinkASesRequiresTransaction(t *testing.T) {
	err := adconnect.Linker{}.LinkASes(context.Background(), nil, ia110, ia120,
		adconnect.CoreCore)
	assert.Error(t, err)
}

func TestLinkASesMetrics(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	db := newStore(t)
	m := &adconnect.Metrics{
		LinksTotal:         metrics.NewTestCounter(),
		AddressesAllocated: metrics.NewTestCounter(),
	}
	linker := adconnect.Linker{Metrics: m}
	require.NoError(t, linker.Link(ctx, db, ia110, ia120, adconnect.ParentChild))
	require.Error(t, linker.Link(ctx, db, ia110, ia120, "SIBLING"))

	count := func(ct, result string) float64 {
		return metrics.CounterValue(metrics.CounterWith(m.LinksTotal,
			prom.LabelLinkType, ct, prom.LabelResult, result))
	}
	assert.Equal(t, float64(1), count("PARENT_CHILD", prom.Success))
	assert.Equal(t, float64(1), count("SIBLING", prom.ErrInvalidReq))
	assert.Equal(t, float64(4), metrics.CounterValue(m.AddressesAllocated))
}
