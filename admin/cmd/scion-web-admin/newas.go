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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/admin/config"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/adconnect"
	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
)

func (a *admin) newNewAS(pather command.Pather) *cobra.Command {
	var flags struct {
		out   string
		store bool
	}
	var cmd = &cobra.Command{
		Use:   "new-as <parent-isd-as> <isd-as> [flags]",
		Short: "Create a new leaf AS below a stored parent",
		Example: fmt.Sprintf("  %[1]s new-as 1-ff00:0:110 1-ff00:0:111\n"+
			"  %[1]s new-as 1-ff00:0:110 1-ff00:0:111 --out /tmp/gen --store=false",
			pather.CommandPath()),
		Long: `'new-as' generates the configuration of a new leaf AS and links it as a
child to the parent AS.

The configuration is written below the output directory, which defaults to
the configured gen_dir. A TRC of the ISD of the new AS must exist in the
configured gen_dir, it is copied to the new AS. The addresses of the new AS
are allocated above the highest address in the store, or in the topology
files of the generated tree if the allocator seed source is "files".

Unless --store=false is given, the new AS and the updated parent are stored.
The topology files of the parent are not changed, use 'export' for that.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ias, err := parseIAs(args...)
			if err != nil {
				return err
			}
			parentIA, ia := ias[0], ias[1]
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			_, err = db.Topology(ctx, ia)
			switch {
			case err == nil:
				return serrors.New("AS already exists", "ia", ia)
			case !errors.Is(err, asdb.ErrNotFound):
				return err
			}
			parent, err := db.Topology(ctx, parentIA)
			if err != nil {
				return serrors.Wrap("reading parent topology", err, "ia", parentIA)
			}

			b := adconnect.Bootstrapper{
				GenDir:           a.cfg.General.GenDir,
				Generator:        a.cfg.Generator.New(),
				AllocatorOptions: a.cfg.Allocator.Options(),
				Metrics:          a.metrics(),
			}
			if a.cfg.Allocator.SeedSource == config.SeedStore {
				b.Source = db
			}
			outDir := flags.out
			if outDir == "" {
				outDir = a.cfg.General.GenDir
			}
			newTopo, newParent, err := b.CreateNewASFiles(ctx, parent, ia.ISD(), ia.AS(),
				outDir)
			if err != nil {
				return err
			}
			if flags.store {
				err := inTx(ctx, db, func(tx asdb.Transaction) error {
					if err := tx.FillFromTopology(ctx, newTopo, true); err != nil {
						return err
					}
					return tx.FillFromTopology(ctx, newParent, true)
				})
				if err != nil {
					return serrors.Wrap("storing topologies", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s below %s in %s\n", ia, parentIA, outDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.out, "out", "",
		"Output directory (default is the configured gen_dir)")
	cmd.Flags().BoolVar(&flags.store, "store", true, "Store the new AS and the updated parent")
	return cmd
}
