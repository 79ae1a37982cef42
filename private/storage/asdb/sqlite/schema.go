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

package sqlite

const (
	// SchemaVersion is the version of the SQLite schema understood by this backend.
	// Whenever changes to the schema are made, this version number should be increased
	// to prevent data corruption between incompatible database schemas.
	SchemaVersion = 1
	// Schema is the SQLite database layout.
	Schema = `CREATE TABLE ases(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		IsdID INTEGER NOT NULL,
		AsID INTEGER NOT NULL,
		IsCore INTEGER NOT NULL DEFAULT 0,
		OriginalTopology TEXT NOT NULL,
		UNIQUE (IsdID, AsID)
	);

	CREATE TABLE border_routers(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		ASRowID INTEGER NOT NULL,
		Name TEXT NOT NULL,
		UNIQUE (ASRowID, Name),
		FOREIGN KEY (ASRowID) REFERENCES ases(RowID) ON DELETE CASCADE
	);

	CREATE TABLE border_router_addresses(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		RouterRowID INTEGER NOT NULL,
		InternalIdx INTEGER NOT NULL,
		IsPublic INTEGER NOT NULL,
		Pos INTEGER NOT NULL,
		Addr TEXT NOT NULL,
		L4Port INTEGER NOT NULL,
		AddrType TEXT NOT NULL,
		FOREIGN KEY (RouterRowID) REFERENCES border_routers(RowID) ON DELETE CASCADE
	);

	CREATE TABLE border_router_interfaces(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		RouterRowID INTEGER NOT NULL,
		InterfaceID TEXT NOT NULL,
		Addr TEXT NOT NULL,
		L4Port INTEGER NOT NULL,
		BindAddr TEXT,
		BindL4Port INTEGER,
		RemoteAddr TEXT NOT NULL,
		RemoteL4Port INTEGER NOT NULL,
		InternalAddrIdx INTEGER NOT NULL,
		Bandwidth INTEGER NOT NULL,
		MTU INTEGER NOT NULL,
		NeighborIsdID INTEGER NOT NULL DEFAULT 0,
		NeighborAsID INTEGER NOT NULL DEFAULT 0,
		NeighborType TEXT NOT NULL DEFAULT '',
		UNIQUE (RouterRowID, InterfaceID),
		FOREIGN KEY (RouterRowID) REFERENCES border_routers(RowID) ON DELETE CASCADE
	);

	CREATE TABLE services(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		ASRowID INTEGER NOT NULL,
		Kind TEXT NOT NULL,
		Name TEXT NOT NULL,
		UNIQUE (ASRowID, Kind, Name),
		FOREIGN KEY (ASRowID) REFERENCES ases(RowID) ON DELETE CASCADE
	);

	CREATE TABLE service_addresses(
		RowID INTEGER PRIMARY KEY AUTOINCREMENT,
		ServiceRowID INTEGER NOT NULL,
		IsPublic INTEGER NOT NULL,
		Pos INTEGER NOT NULL,
		Addr TEXT NOT NULL,
		L4Port INTEGER NOT NULL,
		AddrType TEXT NOT NULL,
		FOREIGN KEY (ServiceRowID) REFERENCES services(RowID) ON DELETE CASCADE
	);`
)
