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
	"net/netip"
	"strings"

	"go4.org/netipx"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

var (
	// DefaultRange is the default allocation range. It covers the loopback
	// block the generated test topologies live in plus 10.0.0.0/8. With the
	// default base 127.0.0.1 only loopback records can raise the seed; the
	// 10.0.0.0/8 part applies once the base is moved into it.
	DefaultRange = MustParseRange("127.0.0.0/8,10.0.0.0/8")
	// RFC1918 is the set of private IPv4 blocks.
	RFC1918 = MustParseRange("10.0.0.0/8,172.16.0.0/12,192.168.0.0/16")
)

// Range is the set of addresses that take part in seeding the global
// allocator. It can be converted to/from a comma separated prefix list.
type Range struct {
	netipx.IPSet
}

// ParseRange parses a comma separated list of prefixes.
func ParseRange(s string) (Range, error) {
	var sb netipx.IPSetBuilder
	for _, prefix := range strings.Split(s, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		p, err := netip.ParsePrefix(prefix)
		if err != nil {
			return Range{}, serrors.Wrap("parsing prefix", err, "prefix", prefix)
		}
		sb.AddPrefix(p)
	}
	set, err := sb.IPSet()
	if err != nil {
		return Range{}, serrors.Wrap("building range", err, "range", s)
	}
	return Range{IPSet: *set}, nil
}

// MustParseRange parses s and panics on error.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) String() string {
	var prefixes []string
	for _, prefix := range r.Prefixes() {
		prefixes = append(prefixes, prefix.String())
	}
	return strings.Join(prefixes, ",")
}

func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(b []byte) error {
	parsed, err := ParseRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
