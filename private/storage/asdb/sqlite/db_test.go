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

package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/dbtest"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/sqlite"
)

var _ dbtest.TestableDB = (*TestBackend)(nil)

type TestBackend struct {
	*sqlite.Backend
}

func (b *TestBackend) Prepare(t *testing.T, _ context.Context) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "as.db"))
	require.NoError(t, err)
	b.Backend = db
}

func TestASDBSuite(t *testing.T) {
	dbtest.Run(t, &TestBackend{})
}

type metricsBackend struct {
	asdb.DB
}

func (b *metricsBackend) Prepare(t *testing.T, _ context.Context) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "as.db"))
	require.NoError(t, err)
	b.DB = asdb.WrapDB(db, nil)
}

func TestWrappedASDBSuite(t *testing.T) {
	dbtest.Run(t, &metricsBackend{})
}

// TestOpenExisting tests that New does not overwrite an existing database if
// versions match.
func TestOpenExisting(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "as.db")
	ia := addr.MustParseIA("1-ff00:0:110")

	db, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, db.FillFromTopology(ctx, dbtest.Topology(ia, 1), true))
	require.NoError(t, db.Close())

	db, err = sqlite.New(path)
	require.NoError(t, err)
	defer db.Close()
	topo, err := db.Topology(ctx, ia)
	require.NoError(t, err)
	dbtest.AssertTopology(t, dbtest.Topology(ia, 1), topo)
}

// TestOpenNewer tests that New does not overwrite an existing database if it's
// of a newer version.
func TestOpenNewer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "as.db")
	db, err := sqlite.New(path)
	require.NoError(t, err)
	_, err = db.DB().Exec(fmt.Sprintf("PRAGMA user_version = %d", sqlite.SchemaVersion+1))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.New(path)
	assert.Error(t, err)
	assert.Nil(t, db)
}
