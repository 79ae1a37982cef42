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
	"path/filepath"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/topogen"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// Bootstrapper creates the configuration of new leaf ASes.
type Bootstrapper struct {
	// GenDir is the generated tree of the existing ASes. TRCs are taken from
	// there.
	GenDir string
	// Generator generates the configuration of the new AS.
	Generator topogen.Generator
	// Source provides the addresses in use. If it is nil, the allocator is
	// seeded from the topology files below GenDir.
	Source ipalloc.AddressSource
	// AllocatorOptions configure the allocator of every bootstrap session.
	AllocatorOptions []ipalloc.Option
	Metrics          *Metrics
}

// CreateNewASFiles generates the configuration of the leaf AS isd-as below
// outDir and links it as a child to parent. It returns the topology of the
// new AS and the updated parent topology. The new AS is written to outDir,
// the updated parent is only returned; persisting it is up to the caller.
func (b Bootstrapper) CreateNewASFiles(
	ctx context.Context,
	parent *topology.Topology,
	isd addr.ISD,
	as addr.AS,
	outDir string,
) (newTopo, newParent *topology.Topology, err error) {

	defer func() { b.Metrics.observeCreate(err) }()
	if parent == nil {
		return nil, nil, serrors.New("parent topology required")
	}
	ia, err := addr.IAFrom(isd, as)
	if err != nil {
		return nil, nil, serrors.Wrap("invalid AS", err)
	}
	logger := log.FromCtx(ctx).New("ia", ia)

	// Without a TRC the new AS cannot be operated, fail before writing
	// anything.
	trc, err := FindSomeTRC(b.GenDir, isd)
	if err != nil {
		return nil, nil, err
	}
	alloc, err := b.allocator(ctx)
	if err != nil {
		return nil, nil, err
	}

	desc := topogen.NewASDescriptor(ia)
	if err := b.Generator.GenerateAll(ctx, desc, outDir, alloc); err != nil {
		return nil, nil, serrors.Wrap("generating configuration", err)
	}
	// The copy keeps the name of the source, it encodes the TRC version.
	trcDst := filepath.Join(topogen.CertsDir(outDir, ia), filepath.Base(trc))
	if err := copyFile(trc, trcDst); err != nil {
		return nil, nil, serrors.Wrap("copying TRC", err)
	}
	logger.Info("Copied TRC", "src", trc, "dst", trcDst)

	topoFile := topogen.TopologyFile(outDir, ia)
	generated, err := topology.Load(topoFile)
	if err != nil {
		return nil, nil, serrors.Wrap("loading generated topology", err)
	}
	newTopo, newParent, err = LinkTopologies(generated, parent, ParentChild, alloc)
	if err != nil {
		return nil, nil, err
	}
	if err := topology.WriteFile(topoFile, newTopo); err != nil {
		return nil, nil, err
	}
	if err := b.Generator.WriteDerivatives(ctx, newTopo, outDir); err != nil {
		return nil, nil, serrors.Wrap("writing derived configuration", err)
	}
	logger.Info("Created AS", "parent", parent.IA(), "file", topoFile)
	return newTopo, newParent, nil
}

func (b Bootstrapper) allocator(ctx context.Context) (*ipalloc.Allocator, error) {
	opts := b.Metrics.allocatorOptions(b.AllocatorOptions)
	if b.Source == nil {
		alloc, err := ipalloc.NewLocal(topogen.TopologyGlob(b.GenDir), opts...)
		if err != nil {
			return nil, serrors.Wrap("seeding allocator", err, "gen_dir", b.GenDir)
		}
		return alloc, nil
	}
	alloc, err := ipalloc.NewGlobal(ctx, b.Source, opts...)
	if err != nil {
		return nil, serrors.Wrap("seeding allocator", err)
	}
	return alloc, nil
}
