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

package topogen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// ParseGenFolder loads the topology of every AS below genDir. The topology of
// an AS is read from its first border router element, in lexical order.
// Directories that are not named like an ISD or an AS are ignored, and so
// are ASes without a border router element.
func ParseGenFolder(genDir string) (map[addr.IA]*topology.Topology, error) {
	isdDirs, err := os.ReadDir(genDir)
	if err != nil {
		return nil, serrors.Wrap("reading generation directory", err, "dir", genDir)
	}
	topos := make(map[addr.IA]*topology.Topology)
	for _, isdDir := range isdDirs {
		if !isdDir.IsDir() {
			continue
		}
		isd, err := addr.ParseFormattedISD(isdDir.Name(), addr.WithDefaultPrefix())
		if err != nil {
			continue
		}
		asDirs, err := os.ReadDir(filepath.Join(genDir, isdDir.Name()))
		if err != nil {
			return nil, serrors.Wrap("reading ISD directory", err, "isd", isd)
		}
		for _, asDir := range asDirs {
			if !asDir.IsDir() {
				continue
			}
			as, err := addr.ParseFormattedAS(asDir.Name(),
				addr.WithDefaultPrefix(), addr.WithFileSeparator())
			if err != nil {
				continue
			}
			ia := addr.MustIAFrom(isd, as)
			topo, err := loadFromRouterElem(filepath.Join(genDir, isdDir.Name(), asDir.Name()))
			if err != nil {
				return nil, serrors.Wrap("loading AS topology", err, "ia", ia)
			}
			if topo == nil {
				log.Debug("Skipping AS without border router", "ia", ia)
				continue
			}
			topos[ia] = topo
		}
	}
	return topos, nil
}

func loadFromRouterElem(asDir string) (*topology.Topology, error) {
	elems, err := os.ReadDir(asDir)
	if err != nil {
		return nil, err
	}
	var routers []string
	for _, elem := range elems {
		if elem.IsDir() && strings.HasPrefix(elem.Name(), "br") {
			routers = append(routers, elem.Name())
		}
	}
	sort.Strings(routers)
	for _, br := range routers {
		file := filepath.Join(asDir, br, TopologyFileName)
		if _, err := os.Stat(file); err != nil {
			continue
		}
		return topology.Load(file)
	}
	return nil, nil
}
