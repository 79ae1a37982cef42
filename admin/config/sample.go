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

package config

const allocatorSample = `
# The lowest seed of the address allocator. New router addresses are
# allocated above the highest address in use, and never at or below the base.
# (default 127.0.0.1)
base = "127.0.0.1"

# Comma separated prefixes. When seeding from the store, only the addresses in
# use within these prefixes are considered.
# (default "127.0.0.0/8,10.0.0.0/8")
range = "127.0.0.0/8,10.0.0.0/8"

# Where the addresses in use are taken from (store|files). With files, the
# topology files below general.gen_dir are scanned. (default store)
seed_source = "store"
`

const generatorSample = `
# The service instances generated for every new AS, by element prefix
# (bs|cs|ps|sb). (default ["bs", "cs", "ps"])
services = ["bs", "cs", "ps"]
`
