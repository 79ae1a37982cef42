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

package command_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsec-ethz/scion-web/private/app/command"
	"github.com/netsec-ethz/scion-web/private/config"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "tool", Short: "A tool"}
	root.AddCommand(
		command.NewSample(root, config.StringSampler{Text: "key = \"value\"\n"}, nil),
		command.NewVersion(root),
		command.NewGendocs(root),
	)
	return root
}

func TestSample(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"sample"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "key = \"value\"\n", out.String())
}

func TestVersion(t *testing.T) {
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tool\n")
	assert.Contains(t, out.String(), "Go version:")
}

func TestGendocs(t *testing.T) {
	dir := t.TempDir()
	root := newRoot()
	root.SetArgs([]string{"gendocs", dir})
	require.NoError(t, root.Execute())

	for _, name := range []string{"tool.md", "tool_sample.md", "tool_version.md", "index.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	// Hidden commands are not documented.
	_, err := os.Stat(filepath.Join(dir, "tool_gendocs.md"))
	assert.True(t, os.IsNotExist(err))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "- [tool sample](tool_sample.md)")
}
