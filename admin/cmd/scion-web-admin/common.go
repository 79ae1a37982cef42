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

package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/netsec-ethz/scion-web/admin/config"
	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/metrics"
	"github.com/netsec-ethz/scion-web/pkg/private/prom"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/storage"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
)

// admin holds the state shared by the commands. The configuration is loaded
// by the launcher before a command runs.
type admin struct {
	cfg *config.Config
	reg prometheus.Registerer
}

func (a *admin) openDB() (asdb.DB, error) {
	m := &asdb.Metrics{
		QueriesTotal: metrics.NewPromCounterFrom(prometheus.CounterOpts{
			Name: "scionweb_asdb_queries_total",
			Help: "Total number of queries on the AS store.",
		}, []string{prom.LabelOperation, prom.LabelResult}, a.reg),
	}
	return storage.NewASStorage(a.cfg.DB, m)
}

func (a *admin) metrics() *adconnect.Metrics {
	return adconnect.NewMetrics(a.reg)
}

func closeDB(db asdb.DB) {
	if err := db.Close(); err != nil {
		log.Error("Closing AS store", "err", err)
	}
}

func parseIAs(args ...string) ([]addr.IA, error) {
	ias := make([]addr.IA, 0, len(args))
	for _, arg := range args {
		ia, err := addr.ParseIA(arg)
		if err != nil {
			return nil, serrors.Wrap("parsing ISD-AS", err, "input", arg)
		}
		ias = append(ias, ia)
	}
	return ias, nil
}

// outputFlags are the flags of commands that print structured output.
type outputFlags struct {
	format  string
	noColor bool
	formats []string
}

func (f *outputFlags) register(fs *pflag.FlagSet, formats ...string) {
	f.formats = append([]string{"human"}, formats...)
	fs.StringVar(&f.format, "format", "human", "Output format, one of "+
		strings.Join(f.formats, ", "))
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
}

func (f *outputFlags) validate() error {
	for _, format := range f.formats {
		if f.format == format {
			return nil
		}
	}
	return serrors.New("format not supported", "format", f.format)
}

// colored reports whether w is a terminal and colors are not disabled.
func (f *outputFlags) colored(w io.Writer) bool {
	if f.noColor {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// encode writes v in the machine readable format.
func (f *outputFlags) encode(w io.Writer, v any) error {
	switch f.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		raw, err := yaml.Marshal(v)
		if err != nil {
			return serrors.Wrap("encoding yaml", err)
		}
		_, err = w.Write(raw)
		return err
	default:
		return serrors.New("format not supported", "format", f.format)
	}
}

// palette are the colors of the human output.
type palette struct {
	header  *color.Color
	key     *color.Color
	added   *color.Color
	removed *color.Color
}

func newPalette(colored bool) palette {
	noColor := color.New()
	noColor.DisableColor()
	p := palette{header: noColor, key: noColor, added: noColor, removed: noColor}
	if colored {
		p.header = enabled(color.New(color.FgHiBlack))
		p.key = enabled(color.New(color.FgHiCyan))
		p.added = enabled(color.New(color.FgGreen))
		p.removed = enabled(color.New(color.FgRed))
	}
	return p
}

// enabled forces the color on. The output is only colored if the caller
// already checked that it writes to a terminal.
func enabled(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}
