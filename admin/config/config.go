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

// Package config describes the configuration of the scion-web admin tool.
package config

import (
	"io"
	"net/netip"

	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/config"
	"github.com/netsec-ethz/scion-web/private/env"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/storage"
	"github.com/netsec-ethz/scion-web/private/topogen"
)

const idSample = "scion-web-admin"

// Seed sources of the allocator.
const (
	SeedStore = "store"
	SeedFiles = "files"
)

var _ config.Config = (*Config)(nil)

// Config is the admin tool configuration.
type Config struct {
	General   env.General      `toml:"general,omitempty"`
	Logging   log.Config       `toml:"log,omitempty"`
	Metrics   env.Metrics      `toml:"metrics,omitempty"`
	DB        storage.DBConfig `toml:"db,omitempty"`
	Allocator Allocator        `toml:"allocator,omitempty"`
	Generator Generator        `toml:"generator,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.DB,
		&cfg.Allocator,
		&cfg.Generator,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.DB,
		&cfg.Allocator,
		&cfg.Generator,
	)
}

// Sample generates a sample config file for the admin tool.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: idSample},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.DB,
		&cfg.Allocator,
		&cfg.Generator,
	)
}

// GeneralConfig returns the general section.
func (cfg *Config) GeneralConfig() *env.General {
	return &cfg.General
}

// MetricsConfig returns the metrics section.
func (cfg *Config) MetricsConfig() *env.Metrics {
	return &cfg.Metrics
}

var _ config.Config = (*Allocator)(nil)

// Allocator configures the address allocator of linking sessions.
type Allocator struct {
	// Base is the lowest seed of the allocator.
	Base netip.Addr `toml:"base,omitempty"`
	// Range limits the addresses in use that are considered when seeding from
	// the store.
	Range ipalloc.Range `toml:"range,omitempty"`
	// SeedSource is either SeedStore or SeedFiles.
	SeedSource string `toml:"seed_source,omitempty"`
}

func (cfg *Allocator) InitDefaults() {
	if !cfg.Base.IsValid() {
		cfg.Base = ipalloc.DefaultBase
	}
	if len(cfg.Range.Prefixes()) == 0 {
		cfg.Range = ipalloc.DefaultRange
	}
	if cfg.SeedSource == "" {
		cfg.SeedSource = SeedStore
	}
}

func (cfg *Allocator) Validate() error {
	if !cfg.Base.Is4() {
		return serrors.New("base must be an IPv4 address", "base", cfg.Base)
	}
	switch cfg.SeedSource {
	case SeedStore, SeedFiles:
		return nil
	default:
		return serrors.New("unknown seed source", "seed_source", cfg.SeedSource)
	}
}

func (cfg *Allocator) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, allocatorSample)
}

func (cfg *Allocator) ConfigName() string {
	return "allocator"
}

// Options returns the allocator options of the configuration.
func (cfg *Allocator) Options() []ipalloc.Option {
	return []ipalloc.Option{ipalloc.WithBase(cfg.Base), ipalloc.WithRange(cfg.Range)}
}

var _ config.Config = (*Generator)(nil)

// Generator configures the generation of new ASes.
type Generator struct {
	// Services are the element prefixes of the generated service instances.
	Services []string `toml:"services,omitempty"`
}

func (cfg *Generator) InitDefaults() {
	if len(cfg.Services) == 0 {
		cfg.Services = []string{"bs", "cs", "ps"}
	}
}

func (cfg *Generator) Validate() error {
	for _, s := range cfg.Services {
		switch s {
		case "bs", "cs", "ps", "sb":
		default:
			return serrors.New("unknown service type", "service", s)
		}
	}
	return nil
}

func (cfg *Generator) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, generatorSample)
}

func (cfg *Generator) ConfigName() string {
	return "generator"
}

// New returns the generator of the configuration.
func (cfg *Generator) New() topogen.LocalGenerator {
	return topogen.LocalGenerator{Services: cfg.Services}
}
