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
	"strings"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

// LinkType describes the relation of an interface to its neighbor. The zero
// value is the unset link type of a not yet linked interface.
type LinkType string

const (
	// Core indicates a link going to a neighboring core AS.
	Core LinkType = "CORE"
	// Parent indicates a link to a parent AS.
	Parent LinkType = "PARENT"
	// Child indicates a link to a child AS.
	Child LinkType = "CHILD"
	// Peer indicates a link to a neighboring peer AS.
	Peer LinkType = "PEER"
)

// LinkTypeFromString parses the link type. Parsing is case insensitive.
func LinkTypeFromString(s string) (LinkType, error) {
	switch l := LinkType(strings.ToUpper(s)); l {
	case Core, Parent, Child, Peer:
		return l, nil
	default:
		return "", serrors.New("unknown link type", "type", s)
	}
}

// UnmarshalText parses the link type. The empty string is the unset link
// type.
func (l *LinkType) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*l = ""
		return nil
	}
	parsed, err := LinkTypeFromString(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l LinkType) String() string {
	return string(l)
}
