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

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/netsec-ethz/scion-web/pkg/metrics"
)

func TestNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.CounterInc(nil)
		metrics.CounterAdd(metrics.CounterWith(nil, "a", "b"), 2)
	})
}

func TestTestCounter(t *testing.T) {
	c := metrics.NewTestCounter()
	metrics.CounterInc(metrics.CounterWith(c, "result", "ok", "type", "PEER_PEER"))
	metrics.CounterInc(metrics.CounterWith(c, "type", "PEER_PEER", "result", "ok"))
	metrics.CounterAdd(metrics.CounterWith(c, "result", "err"), 3)

	assert.Equal(t, float64(2),
		metrics.CounterValue(c.With("result", "ok", "type", "PEER_PEER")))
	assert.Equal(t, float64(3), metrics.CounterValue(c.With("result", "err")))
	assert.Equal(t, float64(0), metrics.CounterValue(c))
	assert.Panics(t, func() { c.Add(-1) })
}

func TestPromCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewPromCounterFrom(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "Test counter.",
	}, []string{"result"}, reg)
	metrics.CounterAdd(c.With("result", "ok"), 2)
	metrics.CounterInc(c.With("result", "err"))

	n, err := testutil.GatherAndCount(reg, "test_counter_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}
