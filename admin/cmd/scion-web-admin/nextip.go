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
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/admin/config"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/app/flag"
	"github.com/netsec-ethz/scion-web/private/ipalloc"
)

type nextIPResult struct {
	Seed      string   `json:"seed" yaml:"seed"`
	Addresses []string `json:"addresses" yaml:"addresses"`
}

func (a *admin) newNextIP(pather command.Pather) *cobra.Command {
	var flags struct {
		output     outputFlags
		count      int
		seedSource string
		base       netip.Addr
		rng        ipalloc.Range
	}
	var cmd = &cobra.Command{
		Use:   "next-ip [flags]",
		Short: "Show the next free addresses",
		Example: fmt.Sprintf("  %[1]s next-ip\n"+
			"  %[1]s next-ip --count 4 --range 10.0.0.0/8\n"+
			"  %[1]s next-ip --seed-source files --format json", pather.CommandPath()),
		Long: `'next-ip' shows the addresses the next allocation would hand out.

The allocator is seeded with the highest address in use, from the store or
from the topology files of the generated tree. Nothing is reserved, running
the command twice shows the same addresses.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.output.validate(); err != nil {
				return err
			}
			if flags.count < 1 {
				return serrors.New("count must be positive", "count", flags.count)
			}
			opts := a.cfg.Allocator.Options()
			if cmd.Flags().Changed("base") {
				opts = append(opts, ipalloc.WithBase(flags.base))
			}
			if cmd.Flags().Changed("range") {
				opts = append(opts, ipalloc.WithRange(flags.rng))
			}
			source := a.cfg.Allocator.SeedSource
			if flags.seedSource != "" {
				source = flags.seedSource
			}

			var alloc *ipalloc.Allocator
			switch source {
			case config.SeedStore:
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer closeDB(db)
				if alloc, err = ipalloc.NewGlobal(cmd.Context(), db, opts...); err != nil {
					return err
				}
			case config.SeedFiles:
				var err error
				alloc, err = ipalloc.NewLocal(a.cfg.General.TopologyGlob(), opts...)
				if err != nil {
					return err
				}
			default:
				return serrors.New("unknown seed source", "seed_source", source)
			}

			res := nextIPResult{Seed: alloc.Seed().String()}
			for i := 0; i < flags.count; i++ {
				next, err := alloc.NextChecked()
				if err != nil {
					return err
				}
				res.Addresses = append(res.Addresses, next.String())
			}
			w := cmd.OutOrStdout()
			if flags.output.format != "human" {
				return flags.output.encode(w, res)
			}
			for _, ip := range res.Addresses {
				fmt.Fprintln(w, ip)
			}
			return nil
		},
	}
	flags.output.register(cmd.Flags(), "json", "yaml")
	cmd.Flags().IntVar(&flags.count, "count", 1, "Number of addresses")
	cmd.Flags().StringVar(&flags.seedSource, "seed-source", "",
		"Seed source, store or files (default is the configured seed_source)")
	flag.IPv4Var(cmd.Flags(), &flags.base, "base", ipalloc.DefaultBase,
		"Lowest seed (default is the configured base)")
	flag.RangeVar(cmd.Flags(), &flags.rng, "range", ipalloc.DefaultRange,
		"Prefixes considered when seeding from the store (default is the configured range)")
	return cmd
}
