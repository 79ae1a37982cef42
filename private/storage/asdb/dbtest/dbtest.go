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

// Package dbtest contains the test suite every AS store implementation
// must pass.
package dbtest

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/db"
	"github.com/netsec-ethz/scion-web/private/topology"
)

const timeout = 3 * time.Second

var (
	ia110 = addr.MustParseIA("1-ff00:0:110")
	ia111 = addr.MustParseIA("1-ff00:0:111")
)

// TestableDB extends the AS store with the ability to set it up for a test.
type TestableDB interface {
	asdb.DB
	// Prepare sets up a fresh, empty store.
	Prepare(t *testing.T, ctx context.Context)
}

// Run runs all tests in the test suite on db. Every implementation of
// asdb.DB should have at least one test that calls Run.
func Run(t *testing.T, db TestableDB) {
	run := func(name string, test func(*testing.T, asdb.DB)) {
		t.Run(name, func(t *testing.T) {
			ctx, cancelF := context.WithTimeout(context.Background(), timeout)
			defer cancelF()
			db.Prepare(t, ctx)
			defer db.Close()
			test(t, db)
		})
	}
	run("FillFromTopology and Topology round trip", testRoundTrip)
	run("Topology of unknown AS", testNotFound)
	run("FillFromTopology without clear keeps elements", testFillMerge)
	run("FillFromTopology with clear replaces elements", testFillClear)
	run("FillFromTopology rejects missing border routers", testFillInvalid)
	run("Addresses", testAddresses)
	run("ASes", testASes)
	run("DeleteAS", testDeleteAS)
	run("Transaction", testTransaction)
}

// Topology returns a topology of ia with two border routers and one instance
// of every service. Addresses are taken from 10.<octet>.0.0/24.
func Topology(ia addr.IA, octet byte) *topology.Topology {
	ip := func(host byte) string {
		return netip.AddrFrom4([4]byte{10, octet, 0, host}).String()
	}
	topo := topology.New(ia)
	topo.Core = true
	topo.MTU = 1472
	topo.ZookeeperService = map[string]*topology.Address{
		"1": {Addr: "localhost", L4Port: 2181},
	}
	topo.BorderRouters["1"] = &topology.BorderRouter{
		InternalAddrs: []topology.InternalAddr{{
			Public: []topology.Address{{Addr: ip(1), L4Port: 31041}},
			Bind:   []topology.Address{{Addr: ip(101), L4Port: 31041}},
		}},
		Interfaces: map[string]*topology.Interface{
			"1": {
				Public:          topology.Address{Addr: ip(2), L4Port: 50000},
				Bind:            &topology.Address{Addr: ip(102), L4Port: 50000},
				Remote:          topology.Address{Addr: "10.99.0.1", L4Port: 50001},
				InternalAddrIdx: 0,
				Bandwidth:       1000,
				MTU:             1472,
				ISDAS:           addr.MustParseIA("2-ff00:0:210"),
				LinkType:        topology.Core,
			},
		},
	}
	topo.BorderRouters["2"] = &topology.BorderRouter{
		InternalAddrs: []topology.InternalAddr{{
			Public: []topology.Address{{Addr: ip(3), L4Port: 31042}},
		}},
		Interfaces: map[string]*topology.Interface{
			"0": {
				Public:    topology.Address{Addr: ip(4), L4Port: 50000},
				Remote:    topology.Address{Addr: topology.NullAddr, L4Port: 50000},
				Bandwidth: 1000,
				MTU:       1472,
			},
		},
	}
	svc := func(host byte) *topology.Service {
		return &topology.Service{Public: []topology.Address{{Addr: ip(host), L4Port: 31041}}}
	}
	topo.BeaconService["bs1-1"] = svc(10)
	topo.CertificateService["cs1-1"] = svc(11)
	topo.PathService["ps1-1"] = svc(12)
	topo.SibraService["sb1-1"] = svc(13)
	return topo
}

// AssertTopology asserts that both topologies have the same JSON
// representation.
func AssertTopology(t *testing.T, expected, actual *topology.Topology) {
	t.Helper()
	e, err := topology.Encode(expected)
	require.NoError(t, err)
	a, err := topology.Encode(actual)
	require.NoError(t, err)
	assert.Equal(t, string(e), string(a))
}

func testRoundTrip(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	raw := []byte(`{"ISDID": 1, "ADID": 280375465083152, "Core": 1,
		"BorderRouters": {}, "BeaconService": {}, "CertificateService": {},
		"PathService": {}, "SibraService": {}, "Overlay": "UDP/IPv4"}`)
	extra, err := topology.Decode(raw)
	require.NoError(t, err)
	for id, br := range Topology(ia110, 1).BorderRouters {
		extra.BorderRouters[id] = br
	}
	expected := Topology(ia110, 1)
	for _, topo := range []*topology.Topology{expected, extra} {
		require.NoError(t, store.FillFromTopology(ctx, topo, true))
		actual, err := store.Topology(ctx, ia110)
		require.NoError(t, err)
		AssertTopology(t, topo, actual)
	}
}

func testNotFound(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	_, err := store.Topology(ctx, ia110)
	assert.ErrorIs(t, err, asdb.ErrNotFound)
}

func updated(ia addr.IA) *topology.Topology {
	topo := Topology(ia, 2)
	delete(topo.BorderRouters, "1")
	topo.BorderRouters["3"] = topo.BorderRouters["2"].Copy()
	topo.BorderRouters["3"].InternalAddrs[0].Public[0].Addr = "10.2.0.30"
	topo.BeaconService = map[string]*topology.Service{
		"bs1-2": {Public: []topology.Address{{Addr: "10.2.0.31", L4Port: 31041}}},
	}
	return topo
}

func testFillMerge(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	require.NoError(t, store.FillFromTopology(ctx, Topology(ia110, 1), false))
	require.NoError(t, store.FillFromTopology(ctx, updated(ia110), false))

	actual, err := store.Topology(ctx, ia110)
	require.NoError(t, err)
	expected := updated(ia110)
	expected.BorderRouters["1"] = Topology(ia110, 1).BorderRouters["1"]
	expected.BeaconService["bs1-1"] = Topology(ia110, 1).BeaconService["bs1-1"]
	AssertTopology(t, expected, actual)
}

func testFillClear(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	require.NoError(t, store.FillFromTopology(ctx, Topology(ia110, 1), false))
	require.NoError(t, store.FillFromTopology(ctx, updated(ia110), true))

	actual, err := store.Topology(ctx, ia110)
	require.NoError(t, err)
	AssertTopology(t, updated(ia110), actual)
}

func testFillInvalid(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	topo := Topology(ia110, 1)
	topo.BorderRouters = nil
	err := store.FillFromTopology(ctx, topo, true)
	assert.ErrorIs(t, err, topology.ErrMissingBorderRouters)
	assert.ErrorIs(t, err, db.ErrInvalidInputData)
}

func testAddresses(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	addrs, err := store.Addresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, addrs)

	require.NoError(t, store.FillFromTopology(ctx, Topology(ia110, 1), true))
	addrs, err = store.Addresses(ctx)
	require.NoError(t, err)
	var expected []netip.Addr
	for _, host := range []byte{1, 101, 2, 102, 3, 4, 10, 11, 12, 13} {
		expected = append(expected, netip.AddrFrom4([4]byte{10, 1, 0, host}))
	}
	// Remote addresses are not records of the AS.
	assert.ElementsMatch(t, expected, addrs)
}

func testASes(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	second := Topology(ia111, 2)
	second.Core = false
	delete(second.BorderRouters, "2")
	require.NoError(t, store.FillFromTopology(ctx, second, true))
	require.NoError(t, store.FillFromTopology(ctx, Topology(ia110, 1), true))

	ases, err := store.ASes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []asdb.AS{
		{IA: ia110, Core: true, Routers: 2},
		{IA: ia111, Core: false, Routers: 1},
	}, ases)
}

func testDeleteAS(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	require.NoError(t, store.FillFromTopology(ctx, Topology(ia110, 1), true))
	require.NoError(t, store.FillFromTopology(ctx, Topology(ia111, 2), true))

	n, err := store.DeleteAS(ctx, ia110)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.DeleteAS(ctx, ia110)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = store.Topology(ctx, ia110)
	assert.ErrorIs(t, err, asdb.ErrNotFound)
	addrs, err := store.Addresses(ctx)
	require.NoError(t, err)
	assert.Len(t, addrs, 9)
	for _, a := range addrs {
		assert.Equal(t, byte(2), a.As4()[1], a.String())
	}
}

func testTransaction(t *testing.T, store asdb.DB) {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	defer cancelF()

	tx, err := store.BeginTransaction(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.FillFromTopology(ctx, Topology(ia110, 1), true))
	inTx, err := tx.Topology(ctx, ia110)
	require.NoError(t, err)
	AssertTopology(t, Topology(ia110, 1), inTx)
	require.NoError(t, tx.Rollback())

	_, err = store.Topology(ctx, ia110)
	assert.ErrorIs(t, err, asdb.ErrNotFound)

	tx, err = store.BeginTransaction(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.FillFromTopology(ctx, Topology(ia110, 1), true))
	require.NoError(t, tx.Commit())

	committed, err := store.Topology(ctx, ia110)
	require.NoError(t, err)
	AssertTopology(t, Topology(ia110, 1), committed)
}
