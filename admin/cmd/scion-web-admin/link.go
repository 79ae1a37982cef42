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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/log"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/topology"
)

func (a *admin) newLink(pather command.Pather) *cobra.Command {
	var flags struct {
		output outputFlags
		dryRun bool
		diff   bool
	}
	var cmd = &cobra.Command{
		Use:   "link <isd-as> <isd-as> <type> [flags]",
		Short: "Link two stored ASes",
		Example: fmt.Sprintf("  %[1]s link 1-ff00:0:110 1-ff00:0:120 CORE_CORE\n"+
			"  %[1]s link 1-ff00:0:111 1-ff00:0:110 PARENT_CHILD --dry-run --diff",
			pather.CommandPath()),
		Long: `'link' connects two ASes of the store with a new link.

Both ASes get a new border router with one interface. The addresses of the
new routers are allocated above the highest address in the store. The type
is one of CORE_CORE, PEER_PEER or PARENT_CHILD. For PARENT_CHILD, the first
AS is the child.

With --dry-run, the link is computed but not stored. With --diff, the
changes of both topologies are shown.
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ias, err := parseIAs(args[:2]...)
			if err != nil {
				return err
			}
			ct, err := adconnect.ParseConnectionType(args[2])
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			p := newPalette(flags.output.colored(w))
			linker := adconnect.Linker{
				AllocatorOptions: a.cfg.Allocator.Options(),
				Metrics:          a.metrics(),
			}
			tx, err := db.BeginTransaction(ctx, nil)
			if err != nil {
				return serrors.Wrap("starting transaction", err)
			}
			if err := linkInTx(ctx, tx, linker, ias, ct, flags.diff, w, p); err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					log.FromCtx(ctx).Error("Rollback failed", "err", rbErr)
				}
				return err
			}
			if flags.dryRun {
				fmt.Fprintln(w, "Dry run, nothing stored")
				return tx.Rollback()
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			fmt.Fprintf(w, "Linked %s and %s (%s)\n", ias[0], ias[1], ct)
			return nil
		},
	}
	flags.output.register(cmd.Flags())
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Do not store the link")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "Show the changes of both topologies")
	return cmd
}

func linkInTx(
	ctx context.Context,
	tx asdb.Transaction,
	linker adconnect.Linker,
	ias []addr.IA,
	ct adconnect.ConnectionType,
	diff bool,
	w io.Writer,
	p palette,
) error {

	var before [][]byte
	if diff {
		var err error
		if before, err = encodeTopologies(ctx, tx, ias); err != nil {
			return err
		}
	}
	if err := linker.LinkASes(ctx, tx, ias[0], ias[1], ct); err != nil {
		return err
	}
	if !diff {
		return nil
	}
	after, err := encodeTopologies(ctx, tx, ias)
	if err != nil {
		return err
	}
	for i, ia := range ias {
		p.header.Fprintf(w, "--- %s\n+++ %s\n", ia, ia)
		writeDiff(w, string(before[i]), string(after[i]), p)
	}
	return nil
}

func encodeTopologies(ctx context.Context, rw asdb.ReadWrite, ias []addr.IA) ([][]byte, error) {
	encoded := make([][]byte, 0, len(ias))
	for _, ia := range ias {
		topo, err := rw.Topology(ctx, ia)
		if err != nil {
			return nil, serrors.Wrap("reading topology", err, "ia", ia)
		}
		raw, err := topology.Encode(topo)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, raw)
	}
	return encoded, nil
}
