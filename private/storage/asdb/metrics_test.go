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

package asdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/dbtest"
	"github.com/netsec-ethz/scion-web/private/storage/asdb/sqlite"
)

func TestWrapDB(t *testing.T) {
	ctx := context.Background()
	backend, err := sqlite.New(filepath.Join(t.TempDir(), "as.db"))
	require.NoError(t, err)
	queries := metrics.NewTestCounter()
	db := asdb.WrapDB(backend, &asdb.Metrics{QueriesTotal: queries})
	defer db.Close()

	ia := addr.MustParseIA("1-ff00:0:110")
	_, err = db.Topology(ctx, ia)
	assert.ErrorIs(t, err, asdb.ErrNotFound)

	tx, err := db.BeginTransaction(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.FillFromTopology(ctx, dbtest.Topology(ia, 1), true))
	require.NoError(t, tx.Commit())

	_, err = db.Addresses(ctx)
	require.NoError(t, err)

	value := func(op, result string) float64 {
		return metrics.CounterValue(queries.With("op", op, "result", result))
	}
	assert.Equal(t, float64(1), value("topology", "err_not_found"))
	assert.Equal(t, float64(1), value("tx_begin", "ok_success"))
	assert.Equal(t, float64(1), value("fill_from_topology", "ok_success"))
	assert.Equal(t, float64(1), value("tx_commit", "ok_success"))
	assert.Equal(t, float64(1), value("addresses", "ok_success"))
}
