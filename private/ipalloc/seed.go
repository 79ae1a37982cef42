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

package ipalloc

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// GlobalSeed returns the highest IPv4 address among the records of src and
// base that lies in rng. Addresses outside rng are ignored, and so is base if
// it is outside rng. If no address qualifies, base is returned.
func GlobalSeed(
	ctx context.Context,
	src AddressSource,
	base netip.Addr,
	rng Range,
) (netip.Addr, error) {
	addrs, err := src.Addresses(ctx)
	if err != nil {
		return netip.Addr{}, serrors.Wrap("reading persisted addresses", err)
	}
	var seed netip.Addr
	if rng.Contains(base) {
		seed = base
	}
	for _, a := range addrs {
		if !a.Is4() || !rng.Contains(a) {
			continue
		}
		if !seed.IsValid() || a.Compare(seed) > 0 {
			seed = a
		}
	}
	if !seed.IsValid() {
		seed = base
	}
	log.FromCtx(ctx).Debug("Seeded global allocator",
		"seed", seed, "records", len(addrs), "range", rng.String())
	return seed, nil
}

// LocalSeed returns the highest IPv4 literal found in the files matching
// pattern, or base if that is higher. The literals are not filtered by any
// range. It returns ErrNoTopologyFiles if pattern matches no file.
func LocalSeed(pattern string, base netip.Addr) (netip.Addr, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return netip.Addr{}, serrors.Wrap("matching topology files", err, "pattern", pattern)
	}
	if len(files) == 0 {
		return netip.Addr{}, serrors.JoinNoStack(ErrNoTopologyFiles, nil, "pattern", pattern)
	}
	seed := base
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return netip.Addr{}, serrors.Wrap("reading topology file", err, "file", file)
		}
		for _, a := range topology.ScanIPv4Literals(raw) {
			if a.Compare(seed) > 0 {
				seed = a
			}
		}
	}
	log.Debug("Seeded local allocator", "seed", seed, "files", len(files))
	return seed, nil
}
