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

// Package command contains the cobra commands shared by the admin tools.
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netsec-ethz/scion-web/private/config"
	"github.com/netsec-ethz/scion-web/private/env"
)

// Pather returns the path of a command.
type Pather interface {
	CommandPath() string
}

// StringPather is a Pather with a fixed path.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// NewSample returns a command that prints a sample configuration.
func NewSample(pather Pather, sampler config.Sampler, ctx config.CtxMap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display a sample configuration file",
		Example: fmt.Sprintf("  %[1]s sample > admin.toml\n"+
			"  %[1]s --config admin.toml list", pather.CommandPath()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sampler.Sample(cmd.OutOrStdout(), nil, ctx)
			return nil
		},
	}
	return cmd
}

// NewVersion returns a command that prints the build information.
func NewVersion(pather Pather) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s", pather.CommandPath(), env.VersionInfo())
			return nil
		},
	}
}
