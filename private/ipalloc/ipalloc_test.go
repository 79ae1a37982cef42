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

package ipalloc_test

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/pkg/private/xtest"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/ipalloc/mock_ipalloc"
)

func TestAllocatorNext(t *testing.T) {
	a := ipalloc.New(netip.MustParseAddr("127.0.0.254"))
	assert.Equal(t, netip.MustParseAddr("127.0.0.255"), a.Next())
	assert.Equal(t, netip.MustParseAddr("127.0.1.0"), a.Next())
	assert.Equal(t, netip.MustParseAddr("127.0.1.1"), a.Next())
	assert.Equal(t, netip.MustParseAddr("127.0.1.1"), a.Last())
	assert.Equal(t, netip.MustParseAddr("127.0.0.254"), a.Seed())
}

func TestAllocatorMonotonic(t *testing.T) {
	a := ipalloc.New(ipalloc.DefaultBase)
	seen := make(map[netip.Addr]struct{})
	prev := a.Seed()
	for i := 0; i < 600; i++ {
		next := a.Next()
		assert.Equal(t, 1, next.Compare(prev))
		_, dup := seen[next]
		assert.False(t, dup, "duplicate %s", next)
		seen[next] = struct{}{}
		prev = next
	}
}

func TestAllocatorExhausted(t *testing.T) {
	a := ipalloc.New(netip.MustParseAddr("255.255.255.254"))
	last, err := a.NextChecked()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("255.255.255.255"), last)

	_, err = a.NextChecked()
	assert.ErrorIs(t, err, ipalloc.ErrExhausted)
	assert.Equal(t, last, a.Last())
	assert.Panics(t, func() { a.Next() })
}

func TestAllocatorMetrics(t *testing.T) {
	c := metrics.NewTestCounter()
	a := ipalloc.New(ipalloc.DefaultBase, ipalloc.WithMetrics(c))
	a.Next()
	a.Next()
	assert.Equal(t, float64(2), metrics.CounterValue(c))
}

func TestGlobalSeed(t *testing.T) {
	records := xtest.MustParseAddrs(t, "10.0.0.5", "10.0.0.9", "192.168.1.1")
	testCases := map[string]struct {
		Records []netip.Addr
		Base    netip.Addr
		Range   ipalloc.Range
		Seed    netip.Addr
	}{
		"default range keeps loopback base": {
			Records: records,
			Range:   ipalloc.DefaultRange,
			Seed:    ipalloc.DefaultBase,
		},
		"default range with base in 10/8": {
			Records: records,
			Base:    netip.MustParseAddr("10.0.0.1"),
			Range:   ipalloc.DefaultRange,
			Seed:    netip.MustParseAddr("10.0.0.9"),
		},
		"base outside range": {
			Records: xtest.MustParseAddrs(t, "10.0.0.5"),
			Base:    netip.MustParseAddr("172.16.0.1"),
			Range:   ipalloc.DefaultRange,
			Seed:    netip.MustParseAddr("10.0.0.5"),
		},
		"only 10/8": {
			Records: records,
			Range:   ipalloc.MustParseRange("10.0.0.0/8"),
			Seed:    netip.MustParseAddr("10.0.0.9"),
		},
		"rfc1918": {
			Records: records,
			Range:   ipalloc.RFC1918,
			Seed:    netip.MustParseAddr("192.168.1.1"),
		},
		"no records": {
			Range: ipalloc.DefaultRange,
			Seed:  ipalloc.DefaultBase,
		},
		"base is a candidate": {
			Records: xtest.MustParseAddrs(t, "127.0.0.0"),
			Range:   ipalloc.DefaultRange,
			Seed:    ipalloc.DefaultBase,
		},
		"no record in range": {
			Records: xtest.MustParseAddrs(t, "8.8.8.8"),
			Range:   ipalloc.MustParseRange("10.0.0.0/8"),
			Seed:    ipalloc.DefaultBase,
		},
		"ipv6 records are ignored": {
			Records: xtest.MustParseAddrs(t, "::1", "127.0.0.12"),
			Range:   ipalloc.DefaultRange,
			Seed:    netip.MustParseAddr("127.0.0.12"),
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := mock_ipalloc.NewMockAddressSource(ctrl)
			src.EXPECT().Addresses(gomock.Any()).Return(tc.Records, nil)

			base := tc.Base
			if !base.IsValid() {
				base = ipalloc.DefaultBase
			}
			seed, err := ipalloc.GlobalSeed(context.Background(), src, base, tc.Range)
			require.NoError(t, err)
			assert.Equal(t, tc.Seed, seed)
		})
	}
}

func TestNewGlobal(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_ipalloc.NewMockAddressSource(ctrl)
	src.EXPECT().Addresses(gomock.Any()).Return(
		xtest.MustParseAddrs(t, "10.0.0.5", "10.0.0.9", "192.168.1.1"), nil,
	).Times(2)

	a, err := ipalloc.NewGlobal(context.Background(), src,
		ipalloc.WithRange(ipalloc.MustParseRange("10.0.0.0/8")))
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.10"), a.Next())

	a, err = ipalloc.NewGlobal(context.Background(), src, ipalloc.WithRange(ipalloc.RFC1918))
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.168.1.2"), a.Next())
}

func TestNewGlobalSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mock_ipalloc.NewMockAddressSource(ctrl)
	src.EXPECT().Addresses(gomock.Any()).Return(nil, serrors.New("db down"))

	_, err := ipalloc.NewGlobal(context.Background(), src)
	assert.Error(t, err)
}

func TestLocalSeed(t *testing.T) {
	dir := t.TempDir()
	writeTopo := func(isd, name, content string) {
		topoDir := filepath.Join(dir, "ISD"+isd, "topologies")
		require.NoError(t, os.MkdirAll(topoDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(topoDir, name), []byte(content), 0o644))
	}
	pattern := filepath.Join(dir, "ISD*", "topologies", "ISD*.json")

	t.Run("no files", func(t *testing.T) {
		_, err := ipalloc.NewLocal(pattern)
		assert.ErrorIs(t, err, ipalloc.ErrNoTopologyFiles)
	})

	writeTopo("1", "ISD1-AS11.json", `{"Addr": "127.0.0.7", "Other": "10.1.2.3"}`)
	writeTopo("2", "ISD2-AS21.json", `{"Addr": "192.168.0.44", "Bad": "300.1.1.1"}`)
	writeTopo("2", "README.md", `{"Addr": "192.168.99.99"}`)

	t.Run("maximum over all files", func(t *testing.T) {
		seed, err := ipalloc.LocalSeed(pattern, ipalloc.DefaultBase)
		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("192.168.0.44"), seed)

		a, err := ipalloc.NewLocal(pattern)
		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("192.168.0.45"), a.Next())
	})
	t.Run("base higher than literals", func(t *testing.T) {
		base := netip.MustParseAddr("200.0.0.1")
		a, err := ipalloc.NewLocal(pattern, ipalloc.WithBase(base))
		require.NoError(t, err)
		assert.Equal(t, base, a.Seed())
	})
}

func TestParseRange(t *testing.T) {
	r, err := ipalloc.ParseRange("10.0.0.0/8, 127.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8,127.0.0.0/8", r.String())
	assert.True(t, r.Contains(netip.MustParseAddr("127.0.0.1")))
	assert.False(t, r.Contains(netip.MustParseAddr("192.168.0.1")))

	_, err = ipalloc.ParseRange("10.0.0.0/33")
	assert.Error(t, err)

	var u ipalloc.Range
	require.NoError(t, u.UnmarshalText([]byte("192.168.0.0/16")))
	assert.True(t, u.Contains(netip.MustParseAddr("192.168.3.4")))
	txt, err := u.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.0/16", string(txt))
}
