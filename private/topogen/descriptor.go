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
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

// AS levels of a descriptor entry.
const (
	LevelCore    = "CORE"
	LevelNonCore = "NON_CORE"
	LevelLeaf    = "LEAF"
)

// Descriptor is the topology description the generator consumes. Every key
// apart from default_zookeepers is an ISD-AS, e.g.
//
//	default_zookeepers:
//	  1: {manage: false, addr: localhost}
//	2-22: {level: LEAF}
type Descriptor struct {
	DefaultZookeepers map[int]Zookeeper  `yaml:"default_zookeepers,omitempty"`
	ASes              map[string]ASEntry `yaml:",inline"`
}

// Zookeeper is a zookeeper instance shared by all generated ASes.
type Zookeeper struct {
	Manage bool   `yaml:"manage"`
	Addr   string `yaml:"addr"`
}

// ASEntry describes a single AS.
type ASEntry struct {
	Level string `yaml:"level,omitempty"`
	MTU   int    `yaml:"mtu,omitempty"`
}

// NewASDescriptor returns the descriptor for a single leaf AS that uses the
// local zookeeper.
func NewASDescriptor(ia addr.IA) *Descriptor {
	return &Descriptor{
		DefaultZookeepers: map[int]Zookeeper{
			1: {Manage: false, Addr: "localhost"},
		},
		ASes: map[string]ASEntry{
			ia.String(): {Level: LevelLeaf},
		},
	}
}

// LoadDescriptor reads a descriptor from a YAML file.
func LoadDescriptor(file string) (*Descriptor, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, serrors.Wrap("reading descriptor", err, "file", file)
	}
	var desc Descriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, serrors.Wrap("parsing descriptor", err, "file", file)
	}
	if _, err := desc.IAs(); err != nil {
		return nil, serrors.Wrap("validating descriptor", err, "file", file)
	}
	return &desc, nil
}

// Marshal encodes the descriptor as YAML.
func (d *Descriptor) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// IAs returns the described ASes in ascending order.
func (d *Descriptor) IAs() ([]addr.IA, error) {
	ias := make([]addr.IA, 0, len(d.ASes))
	for raw, entry := range d.ASes {
		ia, err := addr.ParseIA(raw)
		if err != nil {
			return nil, err
		}
		switch entry.Level {
		case "", LevelCore, LevelNonCore, LevelLeaf:
		default:
			return nil, serrors.New("unknown AS level", "ia", raw, "level", entry.Level)
		}
		ias = append(ias, ia)
	}
	sort.Slice(ias, func(i, j int) bool { return ias[i] < ias[j] })
	return ias, nil
}

// Entry returns the entry of ia.
func (d *Descriptor) Entry(ia addr.IA) (ASEntry, bool) {
	e, ok := d.ASes[ia.String()]
	return e, ok
}
