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

package storage

const sample = `
# The connection string of the database. For sqlite this is the path of the
# database file. (default scion-web.db)
connection = "scion-web.db"

# The maximum number of open connections of the read connection pool. If 0,
# the number of CPUs is used, but at least 4. (default 0)
max_open_read_conns = 0

# The maximum number of idle connections of the read connection pool. If 0,
# the database/sql default is used. (default 0)
max_idle_read_conns = 0
`
