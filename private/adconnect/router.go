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
	"net/netip"
	"strconv"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// Defaults of a router synthesized for an AS without any usable router.
const (
	DefaultInternalPort = 31041
	DefaultLinkPort     = 50000
	DefaultBandwidth    = 1000
	DefaultMTU          = 1472

	// NewInterfaceID is the id of the single interface of a new router.
	NewInterfaceID = "0"
)

// Allocator hands out fresh addresses.
type Allocator interface {
	NextChecked() (netip.Addr, error)
}

// FindLastRouter returns the router with the highest internal public IPv4
// address. Routers without such an address are ignored. On equal addresses
// the router with the lower id wins. ok is false if no router qualifies.
func FindLastRouter(topo *topology.Topology) (id string, br *topology.BorderRouter, ok bool) {
	var last netip.Addr
	for _, rid := range topo.RouterIDs() {
		r := topo.BorderRouters[rid]
		internal, found := r.InternalPublic()
		if !found {
			continue
		}
		ip := internal.IP()
		if !ip.Is4() {
			continue
		}
		if !ok || ip.Compare(last) > 0 {
			id, br, last, ok = rid, r, ip, true
		}
	}
	return id, br, ok
}

// CreateNextRouter synthesizes a new border router with a single unlinked
// interface. The router that was added last serves as template. If there is
// none a router with default ports is created. The topology is not modified.
func CreateNextRouter(
	topo *topology.Topology,
	alloc Allocator,
) (ifID, routerID string, br *topology.BorderRouter, err error) {

	if topo == nil || topo.BorderRouters == nil {
		return "", "", nil, topology.ErrMissingBorderRouters
	}
	internal, err := alloc.NextChecked()
	if err != nil {
		return "", "", nil, serrors.Wrap("allocating internal address", err)
	}
	public, err := alloc.NextChecked()
	if err != nil {
		return "", "", nil, serrors.Wrap("allocating interface address", err)
	}
	routerID = strconv.Itoa(maxRouterID(topo) + 1)
	_, template, ok := FindLastRouter(topo)
	if !ok {
		return NewInterfaceID, routerID, bootstrapRouter(internal, public), nil
	}
	return NewInterfaceID, routerID, cloneRouter(template, internal, public), nil
}

func bootstrapRouter(internal, public netip.Addr) *topology.BorderRouter {
	return &topology.BorderRouter{
		InternalAddrs: []topology.InternalAddr{{
			Public: []topology.Address{{Addr: internal.String(), L4Port: DefaultInternalPort}},
		}},
		Interfaces: map[string]*topology.Interface{
			NewInterfaceID: {
				Public:    topology.Address{Addr: public.String(), L4Port: DefaultLinkPort},
				Remote:    topology.Address{Addr: topology.NullAddr, L4Port: DefaultLinkPort},
				Bandwidth: DefaultBandwidth,
				MTU:       DefaultMTU,
			},
		},
	}
}

func cloneRouter(template *topology.BorderRouter, internal, public netip.Addr) *topology.BorderRouter {
	br := template.Copy()
	br.InternalAddrs[0].Public[0].Addr = internal.String()
	// Bind addresses belong to the host of the template.
	for i := range br.InternalAddrs {
		br.InternalAddrs[i].Bind = nil
	}

	intf := &topology.Interface{
		Public:    topology.Address{L4Port: DefaultLinkPort},
		Remote:    topology.Address{L4Port: DefaultLinkPort},
		Bandwidth: DefaultBandwidth,
		MTU:       DefaultMTU,
	}
	if ids := template.InterfaceIDs(); len(ids) > 0 {
		if t := template.Interfaces[ids[0]]; t != nil {
			intf = t.Copy()
		}
	}
	intf.Public.Addr = public.String()
	intf.Bind = nil
	intf.Remote.Addr = topology.NullAddr
	intf.ISDAS = 0
	intf.LinkType = ""
	br.Interfaces = map[string]*topology.Interface{NewInterfaceID: intf}
	return br
}

// maxRouterID returns the largest numeric router id, or 0 if there is none.
// Ids that are not numbers are ignored.
func maxRouterID(topo *topology.Topology) int {
	maxID := 0
	for id := range topo.BorderRouters {
		if n, err := strconv.Atoi(id); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID
}
