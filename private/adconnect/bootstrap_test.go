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

package adconnect_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	"github.com/netsec-ethz/scion-web/pkg/private/xtest"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/ipalloc/mock_ipalloc"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/dbtest"
	"github.com/netsec-ethz/scion-web/private/topogen"
	"github.com/netsec-ethz/scion-web/private/topogen/mock_topogen"
	"github.com/netsec-ethz/scion-web/private/topology"
)

var trcContent = []byte(`{"ISD": 1, "Version": 3}`)

// genTree creates a generated tree with a TRC and the topology of ia110.
func genTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	xtest.MustWriteFile(t, topogen.TRCFile(dir, ia110, 3), trcContent)
	file := topogen.TopologyFile(dir, ia110)
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, topology.WriteFile(file, dbtest.Topology(ia110, 1)))
	return dir
}

func TestFindSomeTRC(t *testing.T) {
	dir := genTree(t)
	xtest.MustWriteFile(t, topogen.TRCFile(dir, ia120, 2), trcContent)
	// Files of other ISDs and other names do not match.
	xtest.MustWriteFile(t, topogen.TRCFile(dir, xtest.MustParseIA("2-ff00:0:210"), 1),
		trcContent)
	xtest.MustWriteFile(t, filepath.Join(topogen.CertsDir(dir, ia110), "ISD1-V1.crt"),
		trcContent)

	trc, err := adconnect.FindSomeTRC(dir, 1)
	require.NoError(t, err)
	assert.Equal(t, topogen.TRCFile(dir, ia110, 3), trc)

	_, err = adconnect.FindSomeTRC(dir, 3)
	assert.ErrorIs(t, err, adconnect.ErrNoTRCFound)
}

func TestCreateNewASFiles(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	genDir, outDir := genTree(t), t.TempDir()
	src := mock_ipalloc.NewMockAddressSource(ctrl)
	src.EXPECT().Addresses(gomock.Any()).Return(
		xtest.MustParseAddrs(t, "127.0.0.9", "10.0.0.1"), nil)

	parent := topology.New(ia110)
	created := metrics.NewTestCounter()
	b := adconnect.Bootstrapper{
		GenDir:    genDir,
		Generator: topogen.LocalGenerator{},
		Source:    src,
		Metrics:   &adconnect.Metrics{ASesCreated: created},
	}
	newTopo, newParent, err := b.CreateNewASFiles(ctx, parent, 1, xtest.MustParseAS("ff00:0:111"),
		outDir)
	require.NoError(t, err)
	ia := xtest.MustParseIA("1-ff00:0:111")

	// Services get 127.0.0.10 to 127.0.0.12, the link 127.0.0.13 to 127.0.0.16.
	assert.Equal(t, ia, newTopo.IA())
	assert.False(t, bool(newTopo.Core))
	require.Contains(t, newTopo.BeaconService, "bs1-ff00_0_111-1")
	assert.Equal(t, "127.0.0.10", newTopo.BeaconService["bs1-ff00_0_111-1"].Public[0].Addr)
	require.Contains(t, newTopo.BorderRouters, "1")
	internal, _ := newTopo.BorderRouters["1"].InternalPublic()
	assert.Equal(t, "127.0.0.13", internal.Addr)
	intf := newTopo.BorderRouters["1"].Interfaces["0"]
	require.NotNil(t, intf)
	assert.Equal(t, ia110, intf.ISDAS)
	assert.Equal(t, topology.Child, intf.LinkType)
	assert.Equal(t, "127.0.0.16", intf.Remote.Addr)

	require.Contains(t, newParent.BorderRouters, "1")
	parentIntf := newParent.BorderRouters["1"].Interfaces["0"]
	assert.Equal(t, ia, parentIntf.ISDAS)
	assert.Equal(t, topology.Parent, parentIntf.LinkType)
	assert.Equal(t, intf.Public, parentIntf.Remote)
	assert.Empty(t, parent.BorderRouters)

	// The files on disk hold the linked topology.
	onDisk, err := topology.Load(topogen.TopologyFile(outDir, ia))
	require.NoError(t, err)
	dbtest.AssertTopology(t, newTopo, onDisk)
	elem, err := topology.Load(filepath.Join(
		topogen.ElemDir(outDir, ia, topogen.RouterElem(ia, "1")), topogen.TopologyFileName))
	require.NoError(t, err)
	dbtest.AssertTopology(t, newTopo, elem)
	// The TRC keeps its version in the file name.
	trc, err := os.ReadFile(topogen.TRCFile(outDir, ia, 3))
	require.NoError(t, err)
	assert.Equal(t, trcContent, trc)
	_, err = os.Stat(topogen.TRCFile(outDir, ia, 0))
	assert.True(t, os.IsNotExist(err))

	// The parent is not persisted.
	_, err = os.Stat(topogen.TopologyFile(outDir, ia110))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, float64(1), metrics.CounterValue(
		metrics.CounterWith(created, prom.LabelResult, prom.Success)))
}

func TestCreateNewASFilesLocalSeed(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()

	genDir := genTree(t)
	xtest.MustWriteFile(t, topogen.TopologyFile(genDir, ia120), []byte(`{"BorderRouters":
		{"1": {"InternalAddrs": [{"Public": [{"Addr": "127.0.0.40", "L4Port": 31041}]}]}}}`))
	b := adconnect.Bootstrapper{
		GenDir:    genDir,
		Generator: topogen.LocalGenerator{},
	}
	newTopo, newParent, err := b.CreateNewASFiles(ctx, dbtest.Topology(ia110, 1), 1,
		xtest.MustParseAS("ff00:0:111"), t.TempDir())
	require.NoError(t, err)

	// The highest literal in the existing topology files is 127.0.0.40.
	bs := newTopo.BeaconService["bs1-ff00_0_111-1"]
	require.NotNil(t, bs)
	assert.Equal(t, "127.0.0.41", bs.Public[0].Addr)
	assert.Len(t, newParent.BorderRouters, 3)
}

func TestCreateNewASFilesKeepsTRCVersion(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()

	ia21, ia22 := addr.MustIAFrom(2, 21), addr.MustIAFrom(2, 22)
	genDir, outDir := t.TempDir(), t.TempDir()
	xtest.MustWriteFile(t, topogen.TRCFile(genDir, ia21, 5), []byte("trc-version-5"))
	parentFile := topogen.TopologyFile(genDir, ia21)
	require.NoError(t, os.MkdirAll(filepath.Dir(parentFile), 0o755))
	require.NoError(t, topology.WriteFile(parentFile, topology.New(ia21)))

	b := adconnect.Bootstrapper{
		GenDir:    genDir,
		Generator: topogen.LocalGenerator{},
	}
	_, _, err := b.CreateNewASFiles(ctx, topology.New(ia21), 2, ia22.AS(), outDir)
	require.NoError(t, err)

	raw, err := os.ReadFile(topogen.TRCFile(outDir, ia22, 5))
	require.NoError(t, err)
	assert.Equal(t, "trc-version-5", string(raw))
	matches, err := filepath.Glob(filepath.Join(topogen.CertsDir(outDir, ia22), "*.trc"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCreateNewASFilesNoTRC(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Neither the generator nor the address source may be used.
	gen := mock_topogen.NewMockGenerator(ctrl)
	src := mock_ipalloc.NewMockAddressSource(ctrl)
	outDir := t.TempDir()
	b := adconnect.Bootstrapper{
		GenDir:    genTree(t),
		Generator: gen,
		Source:    src,
	}
	_, _, err := b.CreateNewASFiles(ctx, topology.New(ia110), 2,
		xtest.MustParseAS("ff00:0:210"), outDir)
	assert.ErrorIs(t, err, adconnect.ErrNoTRCFound)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateNewASFilesGeneratorError(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelF()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gen := mock_topogen.NewMockGenerator(ctrl)
	gen.EXPECT().GenerateAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, desc *topogen.Descriptor, _ string,
			_ topogen.Allocator) error {

			ias, err := desc.IAs()
			require.NoError(t, err)
			assert.Equal(t, []addr.IA{xtest.MustParseIA("1-ff00:0:111")}, ias)
			entry, _ := desc.Entry(ias[0])
			assert.Equal(t, topogen.LevelLeaf, entry.Level)
			return os.ErrPermission
		})
	src := mock_ipalloc.NewMockAddressSource(ctrl)
	src.EXPECT().Addresses(gomock.Any()).Return(nil, nil)

	b := adconnect.Bootstrapper{
		GenDir:    genTree(t),
		Generator: gen,
		Source:    src,
	}
	_, _, err := b.CreateNewASFiles(ctx, topology.New(ia110), 1,
		xtest.MustParseAS("ff00:0:111"), t.TempDir())
	assert.ErrorIs(t, err, os.ErrPermission)
}
