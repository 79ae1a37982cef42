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

// Package adconnect connects ASes. It synthesizes the border routers for a
// new link, cross-wires the two ends and bootstraps the configuration of a
// new AS below an existing parent.
//
// Addresses for new routers and interfaces are drawn from an
// ipalloc.Allocator. A linking session uses exactly one allocator for both
// ends of a link so that no address is handed out twice.
package adconnect

import (
	"errors"
	"strings"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topology"
)

var (
	// ErrInvalidLinkType indicates an unknown connection type.
	ErrInvalidLinkType = errors.New("invalid link type")
	// ErrNoTRCFound indicates that no TRC exists in the ISD of a new AS.
	ErrNoTRCFound = errors.New("no TRC found")
)

// ConnectionType is the kind of a link between two ASes.
type ConnectionType string

const (
	CoreCore    ConnectionType = "CORE_CORE"
	PeerPeer    ConnectionType = "PEER_PEER"
	ParentChild ConnectionType = "PARENT_CHILD"
)

// legacyConnectionTypes maps the names used by older scion-web versions.
var legacyConnectionTypes = map[string]ConnectionType{
	"CORE_CONNECTION":         CoreCore,
	"PEER_CONNECTION":         PeerPeer,
	"PARENT_CHILD_CONNECTION": ParentChild,
}

// ParseConnectionType parses a connection type. The legacy names
// CORE_CONNECTION, PEER_CONNECTION and PARENT_CHILD_CONNECTION are accepted,
// and parsing is case insensitive.
func ParseConnectionType(s string) (ConnectionType, error) {
	upper := strings.ToUpper(s)
	ct, ok := legacyConnectionTypes[upper]
	if !ok {
		ct = ConnectionType(upper)
	}
	if _, _, err := ct.linkTypes(); err != nil {
		return "", err
	}
	return ct, nil
}

func (ct ConnectionType) String() string {
	return string(ct)
}

// linkTypes returns the link types of the first and the second end of a
// link. For parent-child links the first end is the child.
func (ct ConnectionType) linkTypes() (topology.LinkType, topology.LinkType, error) {
	switch ct {
	case CoreCore:
		return topology.Core, topology.Core, nil
	case PeerPeer:
		return topology.Peer, topology.Peer, nil
	case ParentChild:
		return topology.Child, topology.Parent, nil
	default:
		return "", "", serrors.JoinNoStack(ErrInvalidLinkType, nil, "type", string(ct))
	}
}
