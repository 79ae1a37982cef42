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

package storage_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/private/config"
	"github.com/netsec-ethz/scion-web/private/storage"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
)

func TestDBConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg storage.DBConfig
	cfg.Sample(&sample, nil, nil)

	var loaded storage.DBConfig
	require.NoError(t, config.Decode(sample.Bytes(), &loaded))
	require.NoError(t, loaded.Validate())
	assert.Equal(t, storage.SampleASDB, loaded)
}

func TestDBConfigDefaults(t *testing.T) {
	var cfg storage.DBConfig
	cfg.InitDefaults()
	assert.Equal(t, storage.DefaultASDBPath, cfg.Connection)

	cfg.MaxOpenReadConns = -1
	assert.Error(t, cfg.Validate())
}

func TestNewASStorage(t *testing.T) {
	cfg := storage.DBConfig{Connection: filepath.Join(t.TempDir(), "as.db")}
	db, err := storage.NewASStorage(cfg, &asdb.Metrics{})
	require.NoError(t, err)
	defer db.Close()

	ases, err := db.ASes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ases)
}
