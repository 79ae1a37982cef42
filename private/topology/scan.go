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

package topology

import (
	"net/netip"
	"regexp"
)

// ipv4LiteralRe matches a quoted dotted-quad string literal.
var ipv4LiteralRe = regexp.MustCompile(`"((\d{1,3}\.){3}\d{1,3})"`)

// ScanIPv4Literals returns every quoted dotted-quad literal in raw that is a
// valid IPv4 address, in order of appearance. Literals with octets above 255
// are skipped.
func ScanIPv4Literals(raw []byte) []netip.Addr {
	var addrs []netip.Addr
	for _, m := range ipv4LiteralRe.FindAllSubmatch(raw, -1) {
		a, err := netip.ParseAddr(string(m[1]))
		if err != nil {
			continue
		}
		addrs = append(addrs, a)
	}
	return addrs
}
