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

// scion-web-admin manages the AS store of a SCION network: it links ASes,
// bootstraps new leaf ASes and inspects the stored topologies.
package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/admin/config"
	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/app/launcher"
)

func main() {
	newApplication(prometheus.DefaultRegisterer, nil).Run()
}

func newApplication(reg prometheus.Registerer, out io.Writer) *launcher.Application {
	a := &admin{cfg: &config.Config{}, reg: reg}
	return &launcher.Application{
		TOMLConfig: a.cfg,
		ShortName:  "SCION Web Admin",
		Short:      "Administration of the SCION AS store",
		Registerer: reg,
		Writer:     out,
		Commands: []func(command.Pather) *cobra.Command{
			a.newImport,
			a.newList,
			a.newShow,
			a.newExport,
			a.newDelete,
			a.newLink,
			a.newNewAS,
			a.newNextIP,
		},
	}
}
