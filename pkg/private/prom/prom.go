// Copyright 2017 ETH Zurich
// Copyright 2018 ETH Zurich, Anapaya Systems
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
// Package prom contains some utility functions for dealing with prometheus
// metrics.
package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Common label values.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelOperation is the label for the name of an executed operation.
	LabelOperation = "op"
	// LabelLinkType is the label for the classification of a link.
	LabelLinkType = "link_type"
	// LabelNeighIA is label for the neighboring IA.
	LabelNeighIA = "neighbor_isd_as"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// ErrDB is used for db related errors.
	ErrDB = "err_db"
	// ErrInternal is an internal error.
	ErrInternal = "err_internal"
	// ErrInvalidReq is an invalid request.
	ErrInvalidReq = "err_invalid_request"
	// ErrNotClassified is an error that is not further classified.
	ErrNotClassified = "err_not_classified"
	// ErrParse failed to parse input.
	ErrParse = "err_parse"
	// ErrTimeout is a timeout error.
	ErrTimeout = "err_timeout"
	// ErrNotFound is used for errors where a resource is not found.
	ErrNotFound = "err_not_found"
)

// ExportElementID exports the element ID as configured in the config file.
func ExportElementID(id string, reg prometheus.Registerer) {
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scionweb",
			Name:      "elem_id",
			Help:      "The element ID from the config file",
		},
		[]string{"cfg"},
	)
	SafeRegister(g, reg).(*prometheus.GaugeVec).WithLabelValues(id).Set(1)
}

// SafeRegister registers c with reg, or with the default registerer if reg
// is nil, and returns the registered collector. If c was already registered
// the already registered collector is returned. In case of any other error
// this method panics (as MustRegister).
func SafeRegister(c prometheus.Collector, reg prometheus.Registerer) prometheus.Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
