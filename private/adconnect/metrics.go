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

package adconnect

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	dblib "github.com/netsec-ethz/scion-web/private/storage/db"
)

// Metrics are the counters of the linking operations. All fields are
// optional.
type Metrics struct {
	// LinksTotal is labeled with the connection type and the result.
	LinksTotal metrics.Counter
	// ASesCreated is labeled with the result.
	ASesCreated metrics.Counter
	// AddressesAllocated counts the addresses handed out by the allocators.
	AddressesAllocated metrics.Counter
}

// NewMetrics creates the metrics and registers them with reg. If reg is nil
// the default registerer is used.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LinksTotal: metrics.NewPromCounterFrom(prometheus.CounterOpts{
			Name: "scionweb_links_total",
			Help: "Total number of AS links created.",
		}, []string{prom.LabelLinkType, prom.LabelResult}, reg),
		ASesCreated: metrics.NewPromCounterFrom(prometheus.CounterOpts{
			Name: "scionweb_ases_created_total",
			Help: "Total number of ASes bootstrapped below a parent.",
		}, []string{prom.LabelResult}, reg),
		AddressesAllocated: metrics.NewPromCounterFrom(prometheus.CounterOpts{
			Name: "scionweb_addresses_allocated_total",
			Help: "Total number of IPv4 addresses allocated for routers.",
		}, nil, reg),
	}
}

func (m *Metrics) allocatorOptions(opts []ipalloc.Option) []ipalloc.Option {
	if m == nil || m.AddressesAllocated == nil {
		return opts
	}
	return append(append([]ipalloc.Option(nil), opts...),
		ipalloc.WithMetrics(m.AddressesAllocated))
}

func (m *Metrics) observeLink(ct ConnectionType, err error) {
	if m == nil {
		return
	}
	metrics.CounterInc(metrics.CounterWith(m.LinksTotal,
		prom.LabelLinkType, ct.String(),
		prom.LabelResult, errorLabel(err),
	))
}

func (m *Metrics) observeCreate(err error) {
	if m == nil {
		return
	}
	metrics.CounterInc(metrics.CounterWith(m.ASesCreated, prom.LabelResult, errorLabel(err)))
}

func errorLabel(err error) string {
	switch {
	case err == nil:
		return prom.Success
	case errors.Is(err, ErrInvalidLinkType):
		return prom.ErrInvalidReq
	case errors.Is(err, ErrNoTRCFound), errors.Is(err, asdb.ErrNotFound):
		return prom.ErrNotFound
	default:
		return dblib.ErrToMetricLabel(err)
	}
}
