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

// Package topogen materializes AS configuration trees from a topology
// descriptor.
//
// The layout below the generation directory is
//
//	ISD<isd>/topologies/ISD<isd>-AS<as>.json   AS topology
//	ISD<isd>/AS<as>/<elem>/topology.json        per element copy
//	ISD<isd>/AS<as>/certs/ISD<isd>-V<ver>.trc   TRC
package topogen

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topology"
)

const (
	// DefaultMTU is the MTU of generated ASes unless the descriptor sets one.
	DefaultMTU = 1472
	// ServicePort is the port of generated service instances.
	ServicePort = 31041
	// ZookeeperPort is the port of the default zookeepers.
	ZookeeperPort = 2181
)

// Allocator hands out addresses for generated elements.
type Allocator interface {
	Next() netip.Addr
}

// Generator generates the configuration of ASes.
type Generator interface {
	// GenerateAll writes the configuration of every AS in desc below outDir.
	// Addresses of generated elements are taken from alloc.
	GenerateAll(ctx context.Context, desc *Descriptor, outDir string, alloc Allocator) error
	// WriteDerivatives writes the per element configuration derived from
	// topo below outDir.
	WriteDerivatives(ctx context.Context, topo *topology.Topology, outDir string) error
}

// LocalGenerator generates configuration on the local file system.
type LocalGenerator struct {
	// Services lists the service types generated for every AS, by element
	// prefix. If empty, a beacon, certificate and path service are generated.
	Services []string
}

var defaultServices = []string{"bs", "cs", "ps"}

// GenerateAll implements Generator.
func (g LocalGenerator) GenerateAll(
	ctx context.Context,
	desc *Descriptor,
	outDir string,
	alloc Allocator,
) error {
	ias, err := desc.IAs()
	if err != nil {
		return serrors.Wrap("invalid descriptor", err)
	}
	logger := log.FromCtx(ctx)
	for _, ia := range ias {
		entry, _ := desc.Entry(ia)
		topo, err := g.generate(ia, entry, desc.DefaultZookeepers, alloc)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(CertsDir(outDir, ia), 0o755); err != nil {
			return serrors.Wrap("creating certificate directory", err, "ia", ia)
		}
		file := TopologyFile(outDir, ia)
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return serrors.Wrap("creating topology directory", err, "ia", ia)
		}
		if err := topology.WriteFile(file, topo); err != nil {
			return err
		}
		if err := g.WriteDerivatives(ctx, topo, outDir); err != nil {
			return err
		}
		logger.Info("Generated AS", "ia", ia, "file", file)
	}
	return nil
}

func (g LocalGenerator) generate(
	ia addr.IA,
	entry ASEntry,
	zks map[int]Zookeeper,
	alloc Allocator,
) (*topology.Topology, error) {
	topo := topology.New(ia)
	topo.Core = entry.Level == LevelCore
	topo.MTU = DefaultMTU
	if entry.MTU != 0 {
		topo.MTU = entry.MTU
	}
	services := g.Services
	if len(services) == 0 {
		services = defaultServices
	}
	for _, prefix := range services {
		m, err := serviceMap(topo, prefix)
		if err != nil {
			return nil, err
		}
		m[ServiceElem(prefix, ia, 1)] = &topology.Service{
			Public: []topology.Address{{Addr: alloc.Next().String(), L4Port: ServicePort}},
		}
	}
	if len(zks) != 0 {
		topo.ZookeeperService = make(map[string]*topology.Address, len(zks))
		for id, zk := range zks {
			topo.ZookeeperService[strconv.Itoa(id)] = &topology.Address{
				Addr:   zk.Addr,
				L4Port: ZookeeperPort,
			}
		}
	}
	return topo, nil
}

func serviceMap(topo *topology.Topology, prefix string) (map[string]*topology.Service, error) {
	switch prefix {
	case "bs":
		return topo.BeaconService, nil
	case "cs":
		return topo.CertificateService, nil
	case "ps":
		return topo.PathService, nil
	case "sb":
		return topo.SibraService, nil
	default:
		return nil, serrors.New("unknown service type", "prefix", prefix)
	}
}

// WriteDerivatives implements Generator. Every border router, every service
// instance and the end host get a copy of the AS topology.
func (g LocalGenerator) WriteDerivatives(
	ctx context.Context,
	topo *topology.Topology,
	outDir string,
) error {
	ia := topo.IA()
	elems := []string{EndhostElem}
	for _, id := range topo.RouterIDs() {
		elems = append(elems, RouterElem(ia, id))
	}
	for _, svc := range topo.Services() {
		for name := range svc {
			elems = append(elems, name)
		}
	}
	for _, elem := range elems {
		dir := ElemDir(outDir, ia, elem)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return serrors.Wrap("creating element directory", err, "elem", elem)
		}
		if err := topology.WriteFile(filepath.Join(dir, TopologyFileName), topo); err != nil {
			return err
		}
	}
	log.FromCtx(ctx).Debug("Wrote derived configuration", "ia", ia, "elems", len(elems))
	return nil
}
