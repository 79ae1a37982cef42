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

package prom_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/pkg/private/prom"
)

func TestSafeRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := prometheus.CounterOpts{Name: "test_total", Help: "test"}
	first := prometheus.NewCounter(opts)
	second := prometheus.NewCounter(opts)

	assert.Equal(t, first, prom.SafeRegister(first, reg))
	assert.Equal(t, first, prom.SafeRegister(second, reg))
}

func TestExportElementID(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom.ExportElementID("admin-1", reg)
	prom.ExportElementID("admin-1", reg)

	n, err := testutil.GatherAndCount(reg, "scionweb_elem_id")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
