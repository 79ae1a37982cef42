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
	"fmt"
	"path/filepath"

	"github.com/netsec-ethz/scion-web/pkg/addr"
)

const (
	// TopologyFileName is the name of the per element topology file.
	TopologyFileName = "topology.json"
	// EndhostElem is the element directory used by end hosts.
	EndhostElem = "endhost"
)

// ISDDir returns the directory of isd below genDir.
func ISDDir(genDir string, isd addr.ISD) string {
	return filepath.Join(genDir, fmt.Sprintf("ISD%d", isd))
}

// ASDir returns the directory of ia below genDir.
func ASDir(genDir string, ia addr.IA) string {
	return filepath.Join(ISDDir(genDir, ia.ISD()),
		"AS"+addr.FormatAS(ia.AS(), addr.WithFileSeparator()))
}

// ElemDir returns the directory of the element elem of ia.
func ElemDir(genDir string, ia addr.IA, elem string) string {
	return filepath.Join(ASDir(genDir, ia), elem)
}

// TopologyFile returns the path of the AS topology file of ia. All topology
// files of an ISD share one directory.
func TopologyFile(genDir string, ia addr.IA) string {
	return filepath.Join(ISDDir(genDir, ia.ISD()), "topologies",
		fmt.Sprintf("ISD%d-AS%s.json", ia.ISD(),
			addr.FormatAS(ia.AS(), addr.WithFileSeparator())))
}

// TopologyGlob returns the pattern matching all AS topology files below
// genDir.
func TopologyGlob(genDir string) string {
	return filepath.Join(genDir, "ISD*", "topologies", "ISD*.json")
}

// CertsDir returns the certificate directory of ia.
func CertsDir(genDir string, ia addr.IA) string {
	return filepath.Join(ASDir(genDir, ia), "certs")
}

// TRCFile returns the path of the TRC of the ISD of ia with the given version,
// as stored in the certificate directory of ia.
func TRCFile(genDir string, ia addr.IA, version uint64) string {
	return filepath.Join(CertsDir(genDir, ia), fmt.Sprintf("ISD%d-V%d.trc", ia.ISD(), version))
}

// RouterElem returns the element name of border router id of ia.
func RouterElem(ia addr.IA, id string) string {
	return fmt.Sprintf("br%d-%s-%s", ia.ISD(),
		addr.FormatAS(ia.AS(), addr.WithFileSeparator()), id)
}

// ServiceElem returns the element name of the service instance id of type
// prefix (bs, cs, ps, sb) of ia.
func ServiceElem(prefix string, ia addr.IA, id int) string {
	return fmt.Sprintf("%s%d-%s-%d", prefix, ia.ISD(),
		addr.FormatAS(ia.AS(), addr.WithFileSeparator()), id)
}
