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

package metrics

import (
	"sort"
	"strings"
	"sync"
)

// store is shared by all label variations of one test metric.
type store struct {
	mtx    sync.Mutex
	values map[string]float64
}

func newStore() *store {
	return &store{values: make(map[string]float64)}
}

func (s *store) add(key string, delta float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if delta < 0 {
		panic("counter increment value is < 0")
	}
	s.values[key] += delta
}

func (s *store) value(key string) float64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.values[key]
}

// labelKey builds an order independent key from label name/value pairs.
func labelKey(lvs labelValuesSlice) string {
	pairs := make([]string, 0, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		pairs = append(pairs, lvs[i]+"="+lvs[i+1])
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// TestCounter implements a counter for use in tests. Label variations
// created with With share the storage of their parent.
type TestCounter struct {
	s   *store
	lvs labelValuesSlice
}

// NewTestCounter creates a new counter for use in tests.
func NewTestCounter() *TestCounter {
	return &TestCounter{s: newStore()}
}

// With returns the counter for the extended label set.
func (c *TestCounter) With(labelValues ...string) Counter {
	return &TestCounter{s: c.s, lvs: c.lvs.With(labelValues...)}
}

// Add increases the value of the counter by delta. It panics if delta is
// negative.
func (c *TestCounter) Add(delta float64) {
	c.s.add(labelKey(c.lvs), delta)
}

// CounterValue extracts the value out of a TestCounter. If the argument is not
// a *TestCounter, CounterValue will panic.
func CounterValue(c Counter) float64 {
	tc := c.(*TestCounter)
	return tc.s.value(labelKey(tc.lvs))
}
