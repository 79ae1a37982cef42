// Copyright 2019 Anapaya Systems
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

// Package envtest contains composable checks for the env config blocks. They
// are used by the tests of configs that embed the blocks.
package envtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netsec-ethz/scion-web/private/env"
)

// InitTestGeneral sets non-default values so the sample decode is observable.
func InitTestGeneral(cfg *env.General) {
	cfg.GenDir = "/nonexistent"
}

// CheckTestGeneral checks the values decoded from the general sample.
func CheckTestGeneral(t *testing.T, cfg *env.General, id string) {
	assert.Equal(t, id, cfg.ID)
	assert.Equal(t, env.DefaultGenDir, cfg.GenDir)
}

func InitTestMetrics(cfg *env.Metrics) {
	cfg.Prometheus = "127.0.0.1:1"
}

func CheckTestMetrics(t *testing.T, cfg *env.Metrics) {
	assert.Empty(t, cfg.Prometheus)
}
