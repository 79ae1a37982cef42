// Copyright 2016 ETH Zurich
// Copyright 2018 ETH Zurich, Anapaya Systems
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

package addr

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

const (
	ISDBits   = 16
	ASBits    = 48
	BGPASBits = 32
	MaxISD    = (1 << ISDBits) - 1
	MaxAS     = (1 << ASBits) - 1
	MaxBGPAS  = (1 << BGPASBits) - 1

	asPartBits = 16
	asPartBase = 16
	asPartMask = (1 << asPartBits) - 1
	asParts    = ASBits / asPartBits
)

// ISD is the ISolation Domain identifier. See formatting and allocations here:
// https://docs.scion.org/en/latest/dev/design/ISD-AS-numbering.html#isd-numbers
type ISD uint16

// ParseISD parses an ISD from a decimal string. Note that ISD 0 is parsed
// without any errors.
func ParseISD(s string) (ISD, error) {
	isd, err := strconv.ParseUint(s, 10, ISDBits)
	if err != nil {
		return 0, serrors.Wrap("parsing ISD", err)
	}
	return ISD(isd), nil
}

func (isd ISD) String() string {
	return strconv.FormatUint(uint64(isd), 10)
}

// AS is the Autonomous System identifier. See formatting and allocations here:
// https://docs.scion.org/en/latest/dev/design/ISD-AS-numbering.html#as-numbers
type AS uint64

// ParseAS parses an AS from a decimal (in the case of the 32bit BGP AS number
// space) or ipv6-style hex (in the case of SCION-only AS numbers) string.
func ParseAS(as string) (AS, error) {
	return parseAS(as, ":")
}

func parseAS(as string, sep string) (AS, error) {
	if sep == "" {
		sep = ":"
	}
	parts := strings.Split(as, sep)
	if len(parts) == 1 {
		// Must be a BGP AS, parse as 32-bit decimal number
		return asParseBGP(as)
	}

	if len(parts) != asParts {
		return 0, serrors.New("wrong number of separators",
			"expected", asParts, "actual", len(parts), "value", as, "separator", sep)
	}
	var parsed AS
	for i := 0; i < asParts; i++ {
		parsed <<= asPartBits
		v, err := strconv.ParseUint(parts[i], asPartBase, asPartBits)
		if err != nil {
			return 0, serrors.Wrap("parsing AS part", err, "index", i, "value", as)
		}
		parsed |= AS(v)
	}
	// This should not be reachable. However, we leave it here to protect
	// against future refactor mistakes.
	if !parsed.inRange() {
		return 0, serrors.New("AS out of range", "max", MaxAS, "value", as)
	}
	return parsed, nil
}

func asParseBGP(s string) (AS, error) {
	as, err := strconv.ParseUint(s, 10, BGPASBits)
	if err != nil {
		return 0, serrors.Wrap("parsing BGP AS", err)
	}
	return AS(as), nil
}

func (as AS) String() string {
	return fmtAS(as, ":")
}

func (as AS) inRange() bool {
	return as <= MaxAS
}

var (
	_ fmt.Stringer             = IA(0)
	_ encoding.TextMarshaler   = IA(0)
	_ encoding.TextUnmarshaler = (*IA)(nil)
)

// IA represents the ISD (ISolation Domain) and AS (Autonomous System) Id of a
// given SCION AS. The highest 16 bit form the ISD number and the lower 48 bits
// form the AS number.
type IA uint64

// MustIAFrom creates an IA from the ISD and AS number. It panics if any error
// is encountered. Callers must ensure that the values passed to this function
// are valid.
func MustIAFrom(isd ISD, as AS) IA {
	ia, err := IAFrom(isd, as)
	if err != nil {
		panic(fmt.Sprintf("parsing ISD-AS: %s", err))
	}
	return ia
}

// IAFrom creates an IA from the ISD and AS number.
func IAFrom(isd ISD, as AS) (IA, error) {
	if !as.inRange() {
		return 0, serrors.New("AS out of range", "max", MaxAS, "value", as)
	}
	return IA(isd)<<ASBits | IA(as&MaxAS), nil
}

// ParseIA parses an IA from a string of the format 'isd-as'.
func ParseIA(ia string) (IA, error) {
	parts := strings.Split(ia, "-")
	if len(parts) != 2 {
		return 0, serrors.New("invalid ISD-AS", "value", ia)
	}
	isd, err := ParseISD(parts[0])
	if err != nil {
		return 0, err
	}
	as, err := ParseAS(parts[1])
	if err != nil {
		return 0, err
	}
	return MustIAFrom(isd, as), nil
}

// MustParseIA parses s and returns the corresponding addr.IA object. It
// panics if s is not a valid ISD-AS representation.
func MustParseIA(s string) IA {
	ia, err := ParseIA(s)
	if err != nil {
		panic(err)
	}
	return ia
}

func (ia IA) ISD() ISD {
	return ISD(ia >> ASBits)
}

func (ia IA) AS() AS {
	return AS(ia) & MaxAS
}

func (ia IA) MarshalText() ([]byte, error) {
	return []byte(ia.String()), nil
}

// UnmarshalText allows IA to be used as a map key in JSON.
func (ia *IA) UnmarshalText(b []byte) error {
	parsed, err := ParseIA(string(b))
	if err != nil {
		return err
	}
	*ia = parsed
	return nil
}

func (ia IA) IsZero() bool {
	return ia == 0
}

func (ia IA) Equal(other IA) bool {
	return ia == other
}

func (ia IA) String() string {
	return fmt.Sprintf("%d-%s", ia.ISD(), ia.AS())
}
