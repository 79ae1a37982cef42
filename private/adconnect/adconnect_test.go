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
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/xtest"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/topology"
)

func router(internal string, internalPort, linkPort int) *topology.BorderRouter {
	return &topology.BorderRouter{
		InternalAddrs: []topology.InternalAddr{{
			Public: []topology.Address{{Addr: internal, L4Port: internalPort}},
			Bind:   []topology.Address{{Addr: "192.168.0.1", L4Port: internalPort}},
		}},
		Interfaces: map[string]*topology.Interface{
			"1": {
				Public:          topology.Address{Addr: "10.0.1.1", L4Port: linkPort},
				Bind:            &topology.Address{Addr: "192.168.0.2", L4Port: linkPort},
				Remote:          topology.Address{Addr: "10.0.2.1", L4Port: linkPort + 1},
				InternalAddrIdx: 0,
				Bandwidth:       2000,
				MTU:             1400,
				ISDAS:           xtest.MustParseIA("1-ff00:0:110"),
				LinkType:        topology.Parent,
			},
		},
	}
}

func TestParseConnectionType(t *testing.T) {
	testCases := map[string]struct {
		Input    string
		Expected adconnect.ConnectionType
		Err      bool
	}{
		"core":                {Input: "CORE_CORE", Expected: adconnect.CoreCore},
		"peer lower case":     {Input: "peer_peer", Expected: adconnect.PeerPeer},
		"legacy core":         {Input: "CORE_CONNECTION", Expected: adconnect.CoreCore},
		"legacy peer":         {Input: "PEER_CONNECTION", Expected: adconnect.PeerPeer},
		"legacy parent child": {Input: "PARENT_CHILD_CONNECTION", Expected: adconnect.ParentChild},
		"legacy lower case":   {Input: "peer_connection", Expected: adconnect.PeerPeer},
		"unknown":             {Input: "CHILD_PARENT", Err: true},
		"empty":               {Input: "", Err: true},
		"suffix only":         {Input: "_CONNECTION", Err: true},
		"trailing garbage":    {Input: "CORE_CORE_X", Err: true},
		"unknown legacy name": {Input: "CORE_CORE_CONNECTION", Err: true},
		"link type only":      {Input: "CORE", Err: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ct, err := adconnect.ParseConnectionType(tc.Input)
			if tc.Err {
				assert.ErrorIs(t, err, adconnect.ErrInvalidLinkType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, ct)
		})
	}
}

func TestFindLastRouter(t *testing.T) {
	topo := topology.New(xtest.MustParseIA("1-ff00:0:111"))
	_, _, ok := adconnect.FindLastRouter(topo)
	assert.False(t, ok)

	topo.BorderRouters["1"] = &topology.BorderRouter{}
	topo.BorderRouters["2"] = router("fd00::1", 31041, 50000)
	_, _, ok = adconnect.FindLastRouter(topo)
	assert.False(t, ok, "routers without IPv4 internal address are ignored")

	topo.BorderRouters["5"] = router("10.0.0.2", 31041, 50000)
	topo.BorderRouters["4"] = router("10.0.0.2", 31041, 50000)
	topo.BorderRouters["10"] = router("10.0.0.1", 31041, 50000)
	id, br, ok := adconnect.FindLastRouter(topo)
	require.True(t, ok)
	assert.Equal(t, "4", id)
	assert.Same(t, topo.BorderRouters["4"], br)
}

func TestCreateNextRouterBootstrap(t *testing.T) {
	topo := topology.New(xtest.MustParseIA("2-21"))
	alloc := ipalloc.New(ipalloc.DefaultBase)

	ifID, routerID, br, err := adconnect.CreateNextRouter(topo, alloc)
	require.NoError(t, err)
	assert.Equal(t, "0", ifID)
	assert.Equal(t, "1", routerID)
	expected := &topology.BorderRouter{
		InternalAddrs: []topology.InternalAddr{{
			Public: []topology.Address{{Addr: "127.0.0.2", L4Port: 31041}},
		}},
		Interfaces: map[string]*topology.Interface{
			"0": {
				Public:    topology.Address{Addr: "127.0.0.3", L4Port: 50000},
				Remote:    topology.Address{Addr: topology.NullAddr, L4Port: 50000},
				Bandwidth: 1000,
				MTU:       1472,
			},
		},
	}
	assert.Equal(t, expected, br)
	assert.Empty(t, topo.BorderRouters)
	assert.False(t, br.Interfaces["0"].Linked())
}

func TestCreateNextRouterClone(t *testing.T) {
	testCases := map[string]struct {
		Routers          map[string]*topology.BorderRouter
		ExpectedInternal int
		ExpectedPort     int
	}{
		"highest id is last": {
			Routers: map[string]*topology.BorderRouter{
				"3": router("10.0.0.1", 30003, 50030),
				"7": router("10.0.0.9", 30007, 50070),
			},
			ExpectedInternal: 30007,
			ExpectedPort:     50070,
		},
		"lower id is last": {
			Routers: map[string]*topology.BorderRouter{
				"3": router("10.0.0.9", 30003, 50030),
				"7": router("10.0.0.1", 30007, 50070),
			},
			ExpectedInternal: 30003,
			ExpectedPort:     50030,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			topo := topology.New(xtest.MustParseIA("1-ff00:0:111"))
			topo.BorderRouters = tc.Routers
			orig := topo.Copy()
			alloc := ipalloc.New(netip.MustParseAddr("10.0.0.9"))

			ifID, routerID, br, err := adconnect.CreateNextRouter(topo, alloc)
			require.NoError(t, err)
			assert.Equal(t, "0", ifID)
			assert.Equal(t, "8", routerID)

			internal, ok := br.InternalPublic()
			require.True(t, ok)
			assert.Equal(t, "10.0.0.10", internal.Addr)
			assert.Equal(t, tc.ExpectedInternal, internal.L4Port)
			assert.Nil(t, br.InternalAddrs[0].Bind)

			require.Len(t, br.Interfaces, 1)
			expected := &topology.Interface{
				Public:    topology.Address{Addr: "10.0.0.11", L4Port: tc.ExpectedPort},
				Remote:    topology.Address{Addr: topology.NullAddr, L4Port: tc.ExpectedPort + 1},
				Bandwidth: 2000,
				MTU:       1400,
			}
			assert.Equal(t, expected, br.Interfaces["0"])
			assert.Equal(t, orig, topo)
		})
	}
}

func TestCreateNextRouterErrors(t *testing.T) {
	topo := topology.New(xtest.MustParseIA("1-ff00:0:111"))
	topo.BorderRouters = nil
	_, _, _, err := adconnect.CreateNextRouter(topo, ipalloc.New(ipalloc.DefaultBase))
	assert.ErrorIs(t, err, topology.ErrMissingBorderRouters)

	topo = topology.New(xtest.MustParseIA("1-ff00:0:111"))
	alloc := ipalloc.New(netip.MustParseAddr("255.255.255.254"))
	_, _, _, err = adconnect.CreateNextRouter(topo, alloc)
	assert.ErrorIs(t, err, ipalloc.ErrExhausted)
}

func TestLinkTopologiesParentChild(t *testing.T) {
	a := topology.New(xtest.MustParseIA("2-21"))
	b := topology.New(xtest.MustParseIA("2-22"))
	alloc := ipalloc.New(ipalloc.DefaultBase)

	newA, newB, err := adconnect.LinkTopologies(a, b, adconnect.ParentChild, alloc)
	require.NoError(t, err)

	require.Contains(t, newA.BorderRouters, "1")
	require.Contains(t, newB.BorderRouters, "1")
	intfA := newA.BorderRouters["1"].Interfaces["0"]
	intfB := newB.BorderRouters["1"].Interfaces["0"]
	require.NotNil(t, intfA)
	require.NotNil(t, intfB)

	assert.Equal(t, "2-22", intfA.ISDAS.String())
	assert.Equal(t, topology.Child, intfA.LinkType)
	assert.Equal(t, "2-21", intfB.ISDAS.String())
	assert.Equal(t, topology.Parent, intfB.LinkType)

	assert.Equal(t, topology.Address{Addr: "127.0.0.3", L4Port: 50000}, intfA.Public)
	assert.Equal(t, topology.Address{Addr: "127.0.0.5", L4Port: 50000}, intfB.Public)
	assert.Equal(t, intfB.Public, intfA.Remote)
	assert.Equal(t, intfA.Public, intfB.Remote)
	assert.Equal(t, netip.MustParseAddr("127.0.0.5"), alloc.Last())

	assert.Empty(t, a.BorderRouters)
	assert.Empty(t, b.BorderRouters)
}

func TestLinkTopologiesSymmetric(t *testing.T) {
	testCases := map[adconnect.ConnectionType]topology.LinkType{
		adconnect.CoreCore: topology.Core,
		adconnect.PeerPeer: topology.Peer,
	}
	for ct, lt := range testCases {
		t.Run(ct.String(), func(t *testing.T) {
			a := topology.New(xtest.MustParseIA("1-ff00:0:110"))
			a.BorderRouters["1"] = router("10.0.0.1", 31041, 50000)
			b := topology.New(xtest.MustParseIA("1-ff00:0:120"))
			b.BorderRouters["2"] = router("10.0.0.5", 31041, 50000)
			origA, origB := a.Copy(), b.Copy()

			newA, newB, err := adconnect.LinkTopologies(a, b, ct,
				ipalloc.New(netip.MustParseAddr("10.0.0.5")))
			require.NoError(t, err)

			brA, brB := newA.BorderRouters["2"], newB.BorderRouters["3"]
			require.NotNil(t, brA)
			require.NotNil(t, brB)
			intfA, intfB := brA.Interfaces["0"], brB.Interfaces["0"]
			assert.Equal(t, lt, intfA.LinkType)
			assert.Equal(t, lt, intfB.LinkType)
			assert.Equal(t, b.IA(), intfA.ISDAS)
			assert.Equal(t, a.IA(), intfB.ISDAS)
			assert.Equal(t, intfB.Public, intfA.Remote)
			assert.Equal(t, intfA.Public, intfB.Remote)
			assert.True(t, intfA.Linked())
			assert.True(t, intfB.Linked())

			// Existing routers are carried over untouched.
			assert.Equal(t, origA.BorderRouters["1"], newA.BorderRouters["1"])
			assert.Equal(t, origB.BorderRouters["2"], newB.BorderRouters["2"])
			assert.Equal(t, origA, a)
			assert.Equal(t, origB, b)
		})
	}
}

func TestLinkTopologiesInvalidType(t *testing.T) {
	a := topology.New(xtest.MustParseIA("1-ff00:0:110"))
	b := topology.New(xtest.MustParseIA("1-ff00:0:120"))
	alloc := ipalloc.New(ipalloc.DefaultBase)

	newA, newB, err := adconnect.LinkTopologies(a, b, "CHILD_PARENT", alloc)
	assert.ErrorIs(t, err, adconnect.ErrInvalidLinkType)
	assert.Nil(t, newA)
	assert.Nil(t, newB)
	assert.Empty(t, a.BorderRouters)
	assert.Empty(t, b.BorderRouters)
	assert.Equal(t, alloc.Seed(), alloc.Last())
}

func TestLinkTopologiesInvalidAS(t *testing.T) {
	a := topology.New(xtest.MustParseIA("1-ff00:0:110"))
	b := &topology.Topology{
		ISD:           1,
		AS:            addr.MaxAS + 1,
		BorderRouters: make(map[string]*topology.BorderRouter),
	}
	alloc := ipalloc.New(ipalloc.DefaultBase)

	newA, newB, err := adconnect.LinkTopologies(a, b, adconnect.CoreCore, alloc)
	assert.Error(t, err)
	assert.Nil(t, newA)
	assert.Nil(t, newB)
	assert.Empty(t, a.BorderRouters)
	assert.Equal(t, alloc.Seed(), alloc.Last())
}

func TestLinkTopologiesUniqueAddresses(t *testing.T) {
	ias := []addr.IA{
		xtest.MustParseIA("1-ff00:0:110"),
		xtest.MustParseIA("1-ff00:0:111"),
		xtest.MustParseIA("1-ff00:0:112"),
	}
	topos := make(map[addr.IA]*topology.Topology)
	for _, ia := range ias {
		topos[ia] = topology.New(ia)
	}
	alloc := ipalloc.New(ipalloc.DefaultBase)
	link := func(a, b addr.IA) {
		var err error
		topos[a], topos[b], err = adconnect.LinkTopologies(topos[a], topos[b],
			adconnect.CoreCore, alloc)
		require.NoError(t, err)
	}
	link(ias[0], ias[1])
	link(ias[1], ias[2])
	link(ias[0], ias[2])

	seen := make(map[string]struct{})
	for _, topo := range topos {
		for _, br := range topo.BorderRouters {
			internal, _ := br.InternalPublic()
			addrs := []string{internal.Addr}
			for _, intf := range br.Interfaces {
				addrs = append(addrs, intf.Public.Addr)
			}
			for _, a := range addrs {
				_, dup := seen[a]
				assert.False(t, dup, "duplicate address %s", a)
				seen[a] = struct{}{}
			}
		}
	}
	assert.Len(t, seen, 12)
}
