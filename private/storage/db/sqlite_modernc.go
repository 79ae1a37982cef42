// Copyright 2025 ETH Zurich, Anapaya Systems
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

//go:build !sqlite_mattn

package db

import (
	"net/url"

	_ "modernc.org/sqlite" // sqlite driver
)

// addPragmas sets the connection parameters understood by modernc.org/sqlite.
func addPragmas(q url.Values) {
	// By default, SQLite starts transactions in DEFERRED mode: they are considered read only.
	// They are upgraded to a write transaction that requires a database lock in-flight, when a
	// query containing a write/update/delete statement is issued. Upgrading returns SQLITE_BUSY
	// immediately without respecting busy_timeout, hence BEGIN IMMEDIATE.
	q.Add("_txlock", "immediate")
	// Readers do not block writers and a writer does not block readers in WAL mode.
	q.Add("_pragma", "journal_mode(WAL)")
	// The timeout is in milliseconds.
	q.Add("_pragma", "busy_timeout(1000)")
	// WAL mode is safe from corruption with synchronous=NORMAL.
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(1)")
}

func driverName() string {
	return "sqlite"
}
