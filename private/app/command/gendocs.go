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

package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
)

// Generated pages are included below a second level heading of the manual.
var headers = []struct {
	Search  *regexp.Regexp
	Replace string
}{
	{Search: regexp.MustCompile("\n### "), Replace: "\n#### "},
	{Search: regexp.MustCompile("^## "), Replace: "### "},
}

// NewGendocs returns a hidden command that writes the markdown reference of
// the whole command tree to a directory.
func NewGendocs(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "gendocs <directory>",
		Short:   "Generate documentation",
		Example: fmt.Sprintf("  %s gendocs doc/manual", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().DisableAutoGenTag = true

			directory := args[0]
			if err := os.MkdirAll(directory, 0o755); err != nil {
				return serrors.Wrap("creating directory", err, "dir", directory)
			}
			pages, err := genMarkdownTree(cmd.Root(), directory)
			if err != nil {
				return serrors.Wrap("generating documentation", err)
			}
			return writeIndex(cmd.Root(), directory, pages)
		},
	}
	return cmd
}

func genMarkdownTree(cmd *cobra.Command, dir string) ([]string, error) {
	var pages []string
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		sub, err := genMarkdownTree(c, dir)
		if err != nil {
			return nil, err
		}
		pages = append(pages, sub...)
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(cmd, &buf); err != nil {
		return nil, err
	}
	raw := buf.Bytes()
	for _, h := range headers {
		raw = h.Search.ReplaceAll(raw, []byte(h.Replace))
	}
	basename := pageName(cmd)
	if err := os.WriteFile(filepath.Join(dir, basename), raw, 0o644); err != nil {
		return nil, err
	}
	return append([]string{basename}, pages...), nil
}

func writeIndex(root *cobra.Command, dir string, pages []string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", root.Name())
	for _, p := range pages {
		title := strings.ReplaceAll(strings.TrimSuffix(p, ".md"), "_", " ")
		fmt.Fprintf(&buf, "- [%s](%s)\n", title, p)
	}
	return os.WriteFile(filepath.Join(dir, "index.md"), buf.Bytes(), 0o644)
}

func pageName(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
}
