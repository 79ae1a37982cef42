// Copyright 2020 Anapaya Systems
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


// Package storage provides factories for the application storage backends.
package storage

import (
	"io"

	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/config"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	sqliteasdb "github.com/netsec-ethz/scion-web/private/storage/asdb/sqlite"
	"github.com/netsec-ethz/scion-web/private/storage/db"
)

// Backend indicates the database backend type.
type Backend string

const (
	// BackendSqlite indicates an sqlite backend.
	BackendSqlite Backend = "sqlite"
	// DefaultASDBPath is the default connection string of the AS store.
	DefaultASDBPath = "scion-web.db"
)

// SampleASDB is the default sample of the AS store.
var SampleASDB = DBConfig{
	Connection: DefaultASDBPath,
}

var _ (config.Config) = (*DBConfig)(nil)

// DBConfig is the configuration for the connection to a database.
type DBConfig struct {
	Connection       string `toml:"connection,omitempty"`
	MaxOpenReadConns int    `toml:"max_open_read_conns,omitempty"`
	MaxIdleReadConns int    `toml:"max_idle_read_conns,omitempty"`
}

func (cfg *DBConfig) InitDefaults() {
	if cfg.Connection == "" {
		cfg.Connection = DefaultASDBPath
	}
}

func (cfg *DBConfig) Validate() error {
	if cfg.MaxOpenReadConns < 0 || cfg.MaxIdleReadConns < 0 {
		return serrors.New("connection limits must not be negative",
			"max_open_read_conns", cfg.MaxOpenReadConns,
			"max_idle_read_conns", cfg.MaxIdleReadConns)
	}
	return nil
}

// Sample writes a config sample to the writer.
func (cfg *DBConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, sample)
}

// ConfigName is the key in the toml file.
func (cfg *DBConfig) ConfigName() string {
	return "db"
}

func (cfg *DBConfig) sqliteConfig() *db.SqliteConfig {
	return &db.SqliteConfig{
		MaxOpenReadConns: cfg.MaxOpenReadConns,
		MaxIdleReadConns: cfg.MaxIdleReadConns,
	}
}

// NewASStorage opens the AS store. If m is not nil, the store is
// instrumented.
func NewASStorage(c DBConfig, m *asdb.Metrics) (asdb.DB, error) {
	log.Info("Connecting ASDB", "backend", BackendSqlite, "connection", c.Connection)
	backend, err := sqliteasdb.NewWithConfig(c.Connection, c.sqliteConfig())
	if err != nil {
		return nil, serrors.Wrap("opening AS store", err, "connection", c.Connection)
	}
	if m == nil {
		return backend, nil
	}
	return asdb.WrapDB(backend, m), nil
}
