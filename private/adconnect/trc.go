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

package adconnect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/topogen"
)

// FindSomeTRC returns the path of a TRC of isd in the generated tree rooted at
// genDir. Any AS of the ISD may hold it. If several ASes do, the
// lexicographically first path is returned.
func FindSomeTRC(genDir string, isd addr.ISD) (string, error) {
	pattern := filepath.Join(topogen.ISDDir(genDir, isd), "AS*", "certs",
		fmt.Sprintf("ISD%d-V*.trc", isd))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", serrors.Wrap("globbing TRCs", err, "pattern", pattern)
	}
	if len(matches) == 0 {
		return "", serrors.JoinNoStack(ErrNoTRCFound, nil, "isd", isd, "pattern", pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return serrors.Wrap("reading file", err, "file", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return serrors.Wrap("creating directory", err, "dir", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return serrors.Wrap("writing file", err, "file", dst)
	}
	return nil
}
