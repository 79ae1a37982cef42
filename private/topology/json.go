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
	"bytes"
	"encoding/json"
	"os"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

// knownKeys are the top-level keys modelled by Topology.
var knownKeys = []string{
	"ISDID", "ADID", "Core", "MTU", "BorderRouters", "BeaconService",
	"CertificateService", "PathService", "SibraService", "ZookeeperService",
}

// topologyJSON has the fields of Topology without its JSON methods.
type topologyJSON Topology

// UnmarshalJSON decodes the topology and keeps unknown top-level keys.
func (t *Topology) UnmarshalJSON(b []byte) error {
	var tj topologyJSON
	if err := json.Unmarshal(b, &tj); err != nil {
		return err
	}
	if _, err := (*Topology)(&tj).CheckIA(); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(raw, k)
	}
	*t = Topology(tj)
	t.extra = nil
	if len(raw) > 0 {
		t.extra = make(map[string][]byte, len(raw))
		for k, v := range raw {
			t.extra[k] = v
		}
	}
	return nil
}

// MarshalJSON encodes the topology including the preserved unknown keys.
func (t *Topology) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal((*topologyJSON)(t))
	if err != nil || len(t.extra) == 0 {
		return b, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range t.extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Decode parses a topology from its raw JSON representation.
func Decode(b []byte) (*Topology, error) {
	t := &Topology{}
	if err := json.Unmarshal(b, t); err != nil {
		return nil, serrors.Wrap("parsing topology JSON", err)
	}
	return t, nil
}

// Load parses a topology from a file.
func Load(path string) (*Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap("reading topology", err, "path", path)
	}
	t, err := Decode(b)
	if err != nil {
		return nil, serrors.Wrap("loading topology", err, "path", path)
	}
	return t, nil
}

// Encode returns the JSON representation of the topology with the keys of
// all objects sorted and an indentation of four spaces.
func Encode(t *Topology) ([]byte, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, serrors.Wrap("encoding topology", err)
	}
	// Going through generic values sorts the keys of the struct levels too.
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, serrors.Wrap("re-decoding topology", err)
	}
	out, err := json.MarshalIndent(generic, "", "    ")
	if err != nil {
		return nil, serrors.Wrap("encoding topology", err)
	}
	return append(out, '\n'), nil
}

// WriteFile writes the encoded topology to path.
func WriteFile(path string, t *Topology) error {
	b, err := Encode(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return serrors.Wrap("writing topology", err, "path", path)
	}
	return nil
}

// Flag is a boolean that is encoded as 0 or 1.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts 0, 1, true and false.
func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		return serrors.New("invalid flag value", "value", string(b))
	}
	return nil
}
