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

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// LinkTopologies adds a new router to each of a and b and connects the two
// new interfaces with each other. The link types are derived from ct, for
// ParentChild a is the child. Both topologies are copied, the arguments are
// never modified. All addresses are drawn from alloc, first for a then for b.
func LinkTopologies(
	a, b *topology.Topology,
	ct ConnectionType,
	alloc Allocator,
) (*topology.Topology, *topology.Topology, error) {

	typeA, typeB, err := ct.linkTypes()
	if err != nil {
		return nil, nil, err
	}
	if a == nil || b == nil {
		return nil, nil, serrors.JoinNoStack(topology.ErrMissingBorderRouters, nil,
			"a_nil", a == nil, "b_nil", b == nil)
	}
	for _, t := range []*topology.Topology{a, b} {
		if _, err := t.CheckIA(); err != nil {
			return nil, nil, err
		}
	}
	a, b = a.Copy(), b.Copy()
	ifA, routerA, brA, err := CreateNextRouter(a, alloc)
	if err != nil {
		return nil, nil, serrors.Wrap("creating router", err, "ia", a.IA())
	}
	ifB, routerB, brB, err := CreateNextRouter(b, alloc)
	if err != nil {
		return nil, nil, serrors.Wrap("creating router", err, "ia", b.IA())
	}

	intfA, intfB := brA.Interfaces[ifA], brB.Interfaces[ifB]
	intfA.Remote = intfB.Public
	intfB.Remote = intfA.Public
	intfA.ISDAS, intfB.ISDAS = b.IA(), a.IA()
	intfA.LinkType, intfB.LinkType = typeA, typeB

	a.BorderRouters[routerA] = brA
	b.BorderRouters[routerB] = brB
	return a, b, nil
}

// LinkTopologiesWithSource links a and b with a fresh allocator that is
// seeded from the addresses in src.
func LinkTopologiesWithSource(
	ctx context.Context,
	a, b *topology.Topology,
	ct ConnectionType,
	src ipalloc.AddressSource,
	opts ...ipalloc.Option,
) (*topology.Topology, *topology.Topology, error) {

	if _, _, err := ct.linkTypes(); err != nil {
		return nil, nil, err
	}
	alloc, err := ipalloc.NewGlobal(ctx, src, opts...)
	if err != nil {
		return nil, nil, serrors.Wrap("seeding allocator", err)
	}
	return LinkTopologies(a, b, ct, alloc)
}
