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

// Package flag contains pflag values for the types used on the command line
// of the admin tools.
package flag

import (
	"net/netip"

	"github.com/spf13/pflag"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
)

type iaVal addr.IA

func (v *iaVal) Set(val string) error {
	ia, err := addr.ParseIA(val)
	if err != nil {
		return err
	}
	*v = iaVal(ia)
	return nil
}

func (v *iaVal) Type() string   { return "isd-as" }
func (v *iaVal) String() string { return addr.IA(*v).String() }

type ipVal netip.Addr

func (v *ipVal) Set(val string) error {
	ip, err := netip.ParseAddr(val)
	if err != nil {
		return err
	}
	if !ip.Is4() {
		return serrors.New("not an IPv4 address", "value", val)
	}
	*v = ipVal(ip)
	return nil
}

func (v *ipVal) Type() string { return "ipv4" }
func (v *ipVal) String() string {
	if !netip.Addr(*v).IsValid() {
		return ""
	}
	return netip.Addr(*v).String()
}

type rangeVal ipalloc.Range

func (v *rangeVal) Set(val string) error {
	return (*ipalloc.Range)(v).UnmarshalText([]byte(val))
}

func (v *rangeVal) Type() string   { return "prefixes" }
func (v *rangeVal) String() string { return ipalloc.Range(*v).String() }

// IAVar defines an ISD-AS flag with the given name, default value and usage.
// The value is stored in p.
func IAVar(fs *pflag.FlagSet, p *addr.IA, name string, value addr.IA, usage string) *pflag.Flag {
	*p = value
	return fs.VarPF((*iaVal)(p), name, "", usage)
}

// IPv4Var defines an IPv4 address flag. The value is stored in p.
func IPv4Var(fs *pflag.FlagSet, p *netip.Addr, name string, value netip.Addr,
	usage string) *pflag.Flag {

	*p = value
	return fs.VarPF((*ipVal)(p), name, "", usage)
}

// RangeVar defines a flag holding a comma separated prefix list. The value is
// stored in p.
func RangeVar(fs *pflag.FlagSet, p *ipalloc.Range, name string, value ipalloc.Range,
	usage string) *pflag.Flag {

	*p = value
	return fs.VarPF((*rangeVal)(p), name, "", usage)
}
