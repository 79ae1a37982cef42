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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/topogen"
	"github.com/netsec-ethz/scion-web/private/topology"
)

// inTx runs fn in a write transaction and commits it if fn succeeds.
func inTx(ctx context.Context, db asdb.DB, fn func(asdb.Transaction) error) error {
	tx, err := db.BeginTransaction(ctx, nil)
	if err != nil {
		return serrors.Wrap("starting transaction", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.FromCtx(ctx).Error("Rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (a *admin) newImport(pather command.Pather) *cobra.Command {
	var flags struct {
		from string
	}
	var cmd = &cobra.Command{
		Use:   "import [flags]",
		Short: "Import the ASes of a generated tree into the AS store",
		Example: fmt.Sprintf("  %[1]s import\n  %[1]s import --from /etc/scion/gen",
			pather.CommandPath()),
		Long: `'import' reads the topology of every AS in the generated tree and stores it.

The topology of an AS is taken from its first border router element. ASes
without a border router are skipped. The records of imported ASes that are
already stored are replaced. All ASes are imported in one transaction.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.General.GenDir
			if flags.from != "" {
				dir = flags.from
			}
			topos, err := topogen.ParseGenFolder(dir)
			if err != nil {
				return err
			}
			ias := make([]addr.IA, 0, len(topos))
			for ia := range topos {
				ias = append(ias, ia)
			}
			sort.Slice(ias, func(i, j int) bool { return ias[i] < ias[j] })

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			ctx := cmd.Context()
			err = inTx(ctx, db, func(tx asdb.Transaction) error {
				for _, ia := range ias {
					if err := tx.FillFromTopology(ctx, topos[ia], true); err != nil {
						return serrors.Wrap("storing topology", err, "ia", ia)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ASes from %s\n", len(ias), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.from, "from", "",
		"Generated tree to import (default is the configured gen_dir)")
	return cmd
}

type asEntry struct {
	IA      string `json:"isd_as" yaml:"isd_as"`
	Core    bool   `json:"core" yaml:"core"`
	Routers int    `json:"border_routers" yaml:"border_routers"`
}

func (a *admin) newList(pather command.Pather) *cobra.Command {
	var flags outputFlags
	var cmd = &cobra.Command{
		Use:     "list [flags]",
		Aliases: []string{"ls"},
		Short:   "List the stored ASes",
		Example: fmt.Sprintf("  %[1]s list\n  %[1]s list --format json", pather.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			ases, err := db.ASes(cmd.Context())
			if err != nil {
				return err
			}
			entries := make([]asEntry, 0, len(ases))
			for _, as := range ases {
				entries = append(entries, asEntry{
					IA:      as.IA.String(),
					Core:    as.Core,
					Routers: as.Routers,
				})
			}
			w := cmd.OutOrStdout()
			if flags.format != "human" {
				return flags.encode(w, map[string][]asEntry{"ases": entries})
			}
			table := newTable(w, "ISD-AS", "CORE", "BORDER ROUTERS")
			for _, e := range entries {
				table.Append([]string{e.IA, strconv.FormatBool(e.Core), strconv.Itoa(e.Routers)})
			}
			table.Render()
			return nil
		},
	}
	flags.register(cmd.Flags(), "json", "yaml")
	return cmd
}

func (a *admin) newShow(pather command.Pather) *cobra.Command {
	var flags struct {
		output     outputFlags
		linkedOnly bool
		diff       bool
	}
	var cmd = &cobra.Command{
		Use:   "show <isd-as> [flags]",
		Short: "Show the stored topology of an AS",
		Example: fmt.Sprintf("  %[1]s show 1-ff00:0:110\n"+
			"  %[1]s show 1-ff00:0:110 --linked-only --format json\n"+
			"  %[1]s show 1-ff00:0:110 --diff", pather.CommandPath()),
		Long: `'show' displays the topology of an AS as it is generated from the store.

With --linked-only, border routers with an interface that is not linked yet
are left out. With --diff, the difference between the topology file in the
generated tree and the stored topology is shown instead.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.output.validate(); err != nil {
				return err
			}
			ias, err := parseIAs(args...)
			if err != nil {
				return err
			}
			ia := ias[0]
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			topo, err := db.Topology(cmd.Context(), ia)
			if err != nil {
				return err
			}
			if flags.linkedOnly {
				removed := topology.RemoveIncompleteRouters(topo)
				log.Debug("Removed incomplete routers", "ia", ia, "routers", removed)
			}

			w := cmd.OutOrStdout()
			p := newPalette(flags.output.colored(w))
			if flags.diff {
				return a.showDiff(w, topo, p)
			}
			if flags.output.format == "json" {
				raw, err := topology.Encode(topo)
				if err != nil {
					return err
				}
				_, err = w.Write(raw)
				return err
			}
			writeTopology(w, topo, p)
			return nil
		},
	}
	flags.output.register(cmd.Flags(), "json")
	cmd.Flags().BoolVar(&flags.linkedOnly, "linked-only", false,
		"Leave out border routers that are not linked yet")
	cmd.Flags().BoolVar(&flags.diff, "diff", false,
		"Show the difference to the topology file in the generated tree")
	return cmd
}

func (a *admin) showDiff(w io.Writer, topo *topology.Topology, p palette) error {
	file := topogen.TopologyFile(a.cfg.General.GenDir, topo.IA())
	onDisk, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return serrors.Wrap("reading topology file", err, "file", file)
	}
	stored, err := topology.Encode(topo)
	if err != nil {
		return err
	}
	p.header.Fprintf(w, "--- %s\n+++ store %s\n", file, topo.IA())
	if !writeDiff(w, string(onDisk), string(stored), p) {
		fmt.Fprintln(w, "No differences")
	}
	return nil
}

func writeTopology(w io.Writer, topo *topology.Topology, p palette) {
	fmt.Fprintf(w, "%s %s\n", p.key.Sprint("ISD-AS:"), topo.IA())
	fmt.Fprintf(w, "%s %t\n", p.key.Sprint("Core:  "), bool(topo.Core))
	fmt.Fprintf(w, "%s %d\n\n", p.key.Sprint("MTU:   "), topo.MTU)

	p.header.Fprintln(w, "Border routers:")
	routers := newTable(w, "ROUTER", "INTERNAL", "INTERFACE", "PUBLIC", "REMOTE",
		"NEIGHBOR", "LINK TYPE", "BANDWIDTH", "MTU")
	for _, id := range topo.RouterIDs() {
		br := topo.BorderRouters[id]
		internal := "-"
		if a, ok := br.InternalPublic(); ok {
			internal = a.String()
		}
		if len(br.Interfaces) == 0 {
			routers.Append([]string{id, internal, "-", "-", "-", "-", "-", "-", "-"})
			continue
		}
		for _, ifID := range br.InterfaceIDs() {
			intf := br.Interfaces[ifID]
			routers.Append([]string{
				id,
				internal,
				ifID,
				intf.Public.String(),
				intf.Remote.String(),
				orDash(intf.ISDAS.IsZero(), intf.ISDAS.String()),
				orDash(intf.LinkType == "", intf.LinkType.String()),
				strconv.Itoa(intf.Bandwidth),
				strconv.Itoa(intf.MTU),
			})
		}
	}
	routers.Render()

	fmt.Fprintln(w)
	p.header.Fprintln(w, "Services:")
	services := newTable(w, "TYPE", "NAME", "ADDRESSES")
	svcs := topo.Services()
	types := make([]string, 0, len(svcs))
	for t := range svcs {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		names := make([]string, 0, len(svcs[t]))
		for name := range svcs[t] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			var addrs []string
			for _, a := range svcs[t][name].Public {
				addrs = append(addrs, a.String())
			}
			services.Append([]string{t, name, strings.Join(addrs, ", ")})
		}
	}
	services.Render()
}

func orDash(empty bool, s string) string {
	if empty {
		return "-"
	}
	return s
}

func (a *admin) newExport(pather command.Pather) *cobra.Command {
	var flags struct {
		keepIncomplete bool
	}
	var cmd = &cobra.Command{
		Use:   "export [isd-as...] [flags]",
		Short: "Write stored topologies to the generated tree",
		Example: fmt.Sprintf("  %[1]s export\n  %[1]s export 1-ff00:0:110 1-ff00:0:111",
			pather.CommandPath()),
		Long: `'export' writes the stored topology of the given ASes, or of all stored ASes,
to the generated tree. The AS topology file and the topology file of every
element of the AS are written.

Border routers with an interface that is not linked yet are left out unless
--keep-incomplete is set.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ias, err := parseIAs(args...)
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			ctx := cmd.Context()
			if len(ias) == 0 {
				ases, err := db.ASes(ctx)
				if err != nil {
					return err
				}
				for _, as := range ases {
					ias = append(ias, as.IA)
				}
			}
			gen := a.cfg.Generator.New()
			genDir := a.cfg.General.GenDir
			for _, ia := range ias {
				topo, err := db.Topology(ctx, ia)
				if err != nil {
					return serrors.Wrap("reading topology", err, "ia", ia)
				}
				if !flags.keepIncomplete {
					topology.RemoveIncompleteRouters(topo)
				}
				file := topogen.TopologyFile(genDir, ia)
				if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
					return serrors.Wrap("creating topology directory", err, "ia", ia)
				}
				if err := topology.WriteFile(file, topo); err != nil {
					return err
				}
				if err := gen.WriteDerivatives(ctx, topo, genDir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", ia, file)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.keepIncomplete, "keep-incomplete", false,
		"Keep border routers that are not linked yet")
	return cmd
}

func (a *admin) newDelete(pather command.Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "delete <isd-as>",
		Aliases: []string{"rm"},
		Short:   "Delete an AS from the AS store",
		Example: fmt.Sprintf("  %[1]s delete 1-ff00:0:111", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ias, err := parseIAs(args...)
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			n, err := db.DeleteAS(cmd.Context(), ias[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return serrors.JoinNoStack(asdb.ErrNotFound, nil, "ia", ias[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ias[0])
			return nil
		},
	}
	return cmd
}
