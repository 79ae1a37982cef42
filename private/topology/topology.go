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

// Package topology holds the editable AS topology as it is stored in the
// generated configuration tree and in the AS store. Router and interface
// indices are string-encoded integers.
package topology

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"sort"
	"strconv"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

const (
	// NullAddr is the remote address of an interface that is not linked yet.
	NullAddr = "NULL"
)

// ErrMissingBorderRouters indicates that a topology has no border router
// collection at all. An empty collection is valid.
var ErrMissingBorderRouters = errors.New("topology has no border router collection")

// Topology is the AS topology.
type Topology struct {
	ISD                addr.ISD                 `json:"ISDID"`
	AS                 addr.AS                  `json:"ADID"`
	Core               Flag                     `json:"Core"`
	MTU                int                      `json:"MTU,omitempty"`
	BorderRouters      map[string]*BorderRouter `json:"BorderRouters"`
	BeaconService      map[string]*Service      `json:"BeaconService"`
	CertificateService map[string]*Service      `json:"CertificateService"`
	PathService        map[string]*Service      `json:"PathService"`
	SibraService       map[string]*Service      `json:"SibraService"`
	ZookeeperService   map[string]*Address      `json:"ZookeeperService,omitempty"`

	// extra holds top-level keys this package does not model. They are
	// written back unchanged.
	extra map[string][]byte
}

// New returns an empty topology for the given AS.
func New(ia addr.IA) *Topology {
	return &Topology{
		ISD:                ia.ISD(),
		AS:                 ia.AS(),
		BorderRouters:      make(map[string]*BorderRouter),
		BeaconService:      make(map[string]*Service),
		CertificateService: make(map[string]*Service),
		PathService:        make(map[string]*Service),
		SibraService:       make(map[string]*Service),
	}
}

// IA returns the ISD-AS of the topology. It panics if the AS number is out of
// range; decoded topologies are checked already, others can use CheckIA.
func (t *Topology) IA() addr.IA {
	return addr.MustIAFrom(t.ISD, t.AS)
}

// CheckIA returns the ISD-AS of the topology or an error if the AS number is
// out of range.
func (t *Topology) CheckIA() (addr.IA, error) {
	ia, err := addr.IAFrom(t.ISD, t.AS)
	if err != nil {
		return 0, serrors.Wrap("invalid ISD-AS", err, "isd", t.ISD, "as", uint64(t.AS))
	}
	return ia, nil
}

// RouterIDs returns the border router indices in ascending numeric order.
// Indices that are not numbers sort last, in lexical order.
func (t *Topology) RouterIDs() []string {
	return sortedIDs(t.BorderRouters)
}

// Services returns the service collections keyed by their topology name.
func (t *Topology) Services() map[string]map[string]*Service {
	return map[string]map[string]*Service{
		"BeaconService":      t.BeaconService,
		"CertificateService": t.CertificateService,
		"PathService":        t.PathService,
		"SibraService":       t.SibraService,
	}
}

// Copy returns a deep copy of the topology. The copy shares no mutable state
// with t.
func (t *Topology) Copy() *Topology {
	if t == nil {
		return nil
	}
	c := *t
	if t.BorderRouters != nil {
		c.BorderRouters = make(map[string]*BorderRouter, len(t.BorderRouters))
		for id, br := range t.BorderRouters {
			c.BorderRouters[id] = br.Copy()
		}
	}
	c.BeaconService = copyServices(t.BeaconService)
	c.CertificateService = copyServices(t.CertificateService)
	c.PathService = copyServices(t.PathService)
	c.SibraService = copyServices(t.SibraService)
	if t.ZookeeperService != nil {
		c.ZookeeperService = make(map[string]*Address, len(t.ZookeeperService))
		for id, a := range t.ZookeeperService {
			c.ZookeeperService[id] = a.Copy()
		}
	}
	if t.extra != nil {
		c.extra = make(map[string][]byte, len(t.extra))
		for k, v := range t.extra {
			c.extra[k] = slices.Clone(v)
		}
	}
	return &c
}

// Address is a layer 3 plus layer 4 address. Addr is kept as text because
// unlinked interfaces carry NullAddr.
type Address struct {
	Addr   string `json:"Addr"`
	L4Port int    `json:"L4Port"`
}

// IP parses the address. It returns the zero value if Addr is not an IP
// address.
func (a Address) IP() netip.Addr {
	ip, err := netip.ParseAddr(a.Addr)
	if err != nil {
		return netip.Addr{}
	}
	return ip
}

func (a Address) String() string {
	return fmt.Sprintf("%s:%d", a.Addr, a.L4Port)
}

func (a *Address) Copy() *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// InternalAddr is one internal address entry of a border router.
type InternalAddr struct {
	Public []Address `json:"Public"`
	Bind   []Address `json:"Bind,omitempty"`
}

func (a InternalAddr) copy() InternalAddr {
	return InternalAddr{
		Public: slices.Clone(a.Public),
		Bind:   slices.Clone(a.Bind),
	}
}

// BorderRouter is a border router entry.
type BorderRouter struct {
	InternalAddrs []InternalAddr        `json:"InternalAddrs"`
	Interfaces    map[string]*Interface `json:"Interfaces"`
}

// InternalPublic returns the first public internal address of the router.
func (br *BorderRouter) InternalPublic() (Address, bool) {
	if br == nil || len(br.InternalAddrs) == 0 || len(br.InternalAddrs[0].Public) == 0 {
		return Address{}, false
	}
	return br.InternalAddrs[0].Public[0], true
}

// InterfaceIDs returns the interface indices in ascending numeric order.
func (br *BorderRouter) InterfaceIDs() []string {
	return sortedIDs(br.Interfaces)
}

func (br *BorderRouter) Copy() *BorderRouter {
	if br == nil {
		return nil
	}
	c := &BorderRouter{}
	if br.InternalAddrs != nil {
		c.InternalAddrs = make([]InternalAddr, 0, len(br.InternalAddrs))
		for _, a := range br.InternalAddrs {
			c.InternalAddrs = append(c.InternalAddrs, a.copy())
		}
	}
	if br.Interfaces != nil {
		c.Interfaces = make(map[string]*Interface, len(br.Interfaces))
		for id, intf := range br.Interfaces {
			c.Interfaces[id] = intf.Copy()
		}
	}
	return c
}

// Interface is one external interface of a border router.
type Interface struct {
	Public          Address  `json:"Public"`
	Bind            *Address `json:"Bind,omitempty"`
	Remote          Address  `json:"Remote"`
	InternalAddrIdx int      `json:"InternalAddrIdx"`
	Bandwidth       int      `json:"Bandwidth"`
	MTU             int      `json:"MTU"`
	ISDAS           addr.IA  `json:"ISD_AS,omitempty"`
	LinkType        LinkType `json:"LinkType,omitempty"`
}

// Linked reports whether the interface has a remote end.
func (intf *Interface) Linked() bool {
	return intf.Remote.Addr != "" && intf.Remote.Addr != NullAddr && intf.Remote.L4Port != 0
}

func (intf *Interface) Copy() *Interface {
	if intf == nil {
		return nil
	}
	c := *intf
	c.Bind = intf.Bind.Copy()
	return &c
}

// Service is a service instance entry.
type Service struct {
	Public []Address `json:"Public"`
	Bind   []Address `json:"Bind,omitempty"`
}

func (s *Service) Copy() *Service {
	if s == nil {
		return nil
	}
	return &Service{
		Public: slices.Clone(s.Public),
		Bind:   slices.Clone(s.Bind),
	}
}

func copyServices(m map[string]*Service) map[string]*Service {
	if m == nil {
		return nil
	}
	c := make(map[string]*Service, len(m))
	for name, s := range m {
		c[name] = s.Copy()
	}
	return c
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}
