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

// Package env contains the configuration blocks shared by the admin tools.
// If something is specific to one tool, it should go into that tool's code
// and not here.
package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/config"
)

const (
	// DefaultGenDir is the default directory holding the generated ISD/AS
	// configuration tree.
	DefaultGenDir = "gen"

	// HandlerTimeout is the time after which the http handler gives up on a
	// request and returns an error instead.
	HandlerTimeout = time.Minute
)

var _ config.Config = (*General)(nil)

type General struct {
	// ID identifies this admin instance in logs and metrics.
	ID string `toml:"id,omitempty"`
	// GenDir is the root of the generated configuration tree
	// (gen/ISD<isd>/AS<as>/...).
	GenDir string `toml:"gen_dir,omitempty"`
}

// InitDefaults sets the default value for GenDir if not already set.
func (cfg *General) InitDefaults() {
	if cfg.GenDir == "" {
		cfg.GenDir = DefaultGenDir
	}
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("no id specified")
	}
	return cfg.checkDir()
}

// checkDir checks that the gen dir is a directory if it already exists. A
// missing gen dir is created by the generator.
func (cfg *General) checkDir() error {
	if cfg.GenDir == "" {
		return nil
	}
	info, err := os.Stat(cfg.GenDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return serrors.Wrap("checking gen_dir", err, "dir", cfg.GenDir)
	}
	if !info.IsDir() {
		return serrors.New("gen_dir is not a directory", "dir", cfg.GenDir)
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, fmt.Sprintf(generalSample, ctx[config.ID]))
}

func (cfg *General) ConfigName() string {
	return "general"
}

// TopologyGlob returns the glob matching the per-ISD topology files below
// the gen dir.
func (cfg *General) TopologyGlob() string {
	return filepath.Join(cfg.GenDir, "ISD*", "topologies", "ISD*.json")
}

var _ config.Config = (*Metrics)(nil)

type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// Prometheus contains the address to export prometheus metrics on. If
	// not set, metrics are not exported.
	Prometheus string `toml:"prometheus,omitempty"`
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// ServePrometheus serves the default prometheus registry until ctx is done.
// It is a no-op if no address is configured.
func (cfg *Metrics) ServePrometheus(ctx context.Context) error {
	if cfg.Prometheus == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{Timeout: HandlerTimeout},
		),
	))
	log.Info("Exporting prometheus metrics", "addr", cfg.Prometheus)

	server := &http.Server{Addr: cfg.Prometheus, Handler: mux}
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		server.Close()
	}()
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return serrors.Wrap("serving prometheus metrics", err)
	}
	return nil
}
