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

// Package ipalloc hands out IPv4 addresses for synthesized border routers.
//
// An Allocator is seeded with the highest address already in use and then
// returns seed+1, seed+2, ... without ever looking back. The seed either
// comes from the persisted address records (global seeding) or from the
// generated topology files on disk (local seeding).
//
// An Allocator is not safe for concurrent use. Callers serialize a linking
// session, for example by holding the store's write transaction.
package ipalloc

import (
	"context"
	"errors"
	"net/netip"

	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

var (
	// ErrNoTopologyFiles indicates that local seeding found no topology file.
	ErrNoTopologyFiles = errors.New("no topology files found")
	// ErrExhausted indicates that the allocator ran past 255.255.255.255.
	ErrExhausted = errors.New("IPv4 address space exhausted")
)

// DefaultBase is the address seeding starts from.
var DefaultBase = netip.MustParseAddr("127.0.0.1")

// AddressSource provides the addresses of all persisted border router
// addresses, border router interfaces and service addresses.
type AddressSource interface {
	Addresses(ctx context.Context) ([]netip.Addr, error)
}

// Allocator returns a strictly increasing sequence of IPv4 addresses.
type Allocator struct {
	seed      netip.Addr
	last      netip.Addr
	allocated metrics.Counter
}

// New returns an allocator whose first address is seed+1. The seed must be an
// IPv4 address.
func New(seed netip.Addr, opts ...Option) *Allocator {
	o := applyOptions(opts)
	return &Allocator{
		seed:      seed,
		last:      seed,
		allocated: o.allocated,
	}
}

// NewGlobal returns an allocator seeded from the persisted address records,
// see GlobalSeed.
func NewGlobal(ctx context.Context, src AddressSource, opts ...Option) (*Allocator, error) {
	o := applyOptions(opts)
	seed, err := GlobalSeed(ctx, src, o.base, o.rng)
	if err != nil {
		return nil, err
	}
	return New(seed, opts...), nil
}

// NewLocal returns an allocator seeded from the topology files matching
// pattern, see LocalSeed.
func NewLocal(pattern string, opts ...Option) (*Allocator, error) {
	o := applyOptions(opts)
	seed, err := LocalSeed(pattern, o.base)
	if err != nil {
		return nil, err
	}
	return New(seed, opts...), nil
}

// Seed returns the address the allocator was seeded with.
func (a *Allocator) Seed() netip.Addr {
	return a.seed
}

// Last returns the last address handed out, or the seed if none was.
func (a *Allocator) Last() netip.Addr {
	return a.last
}

// NextChecked returns the next address. It returns ErrExhausted once the
// IPv4 space is used up.
func (a *Allocator) NextChecked() (netip.Addr, error) {
	next := a.last.Next()
	if !next.IsValid() || !next.Is4() {
		return netip.Addr{}, serrors.JoinNoStack(ErrExhausted, nil, "last", a.last)
	}
	a.last = next
	metrics.CounterInc(a.allocated)
	return next, nil
}

// Next returns the next address. It panics if the IPv4 space is exhausted.
func (a *Allocator) Next() netip.Addr {
	next, err := a.NextChecked()
	if err != nil {
		panic(err)
	}
	return next
}

// Option configures seeding and instrumentation of an allocator.
type Option func(*options)

type options struct {
	base      netip.Addr
	rng       Range
	allocated metrics.Counter
}

// WithBase sets the base address. The default is DefaultBase.
func WithBase(base netip.Addr) Option {
	return func(o *options) {
		o.base = base
	}
}

// WithRange sets the range for global seeding. The default is DefaultRange.
func WithRange(r Range) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithMetrics sets the counter that is increased for every allocation.
func WithMetrics(allocated metrics.Counter) Option {
	return func(o *options) {
		o.allocated = allocated
	}
}

func applyOptions(opts []Option) options {
	o := options{
		base: DefaultBase,
		rng:  DefaultRange,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
