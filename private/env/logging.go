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

package env

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/netsec-ethz/scion-web/pkg/log"
)

// LogAppStarted should be called by applications as soon as logging is
// initialized.
func LogAppStarted(name, id string) {
	log.Info(fmt.Sprintf("=====================> Started %s %s\n%s  %s\n  %s\n",
		name,
		id,
		VersionInfo(),
		fmt.Sprintf("pid:           %d", os.Getpid()),
		fmt.Sprintf("cmd line:      %q", os.Args),
	))
}

func LogAppStopped(name, id string) {
	log.Info(fmt.Sprintf("=====================> Stopped %s %s", name, id))
}

// VersionInfo returns the build version information.
func VersionInfo() string {
	version, goVersion := BuildInfo()
	return fmt.Sprintf("  %s\n  %s\n",
		fmt.Sprintf("Version:       %s", version),
		fmt.Sprintf("Go version:    %s", goVersion),
	)
}

// BuildInfo returns the module version and the go version the binary was
// built with.
func BuildInfo() (version, goVersion string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown", "unknown"
	}
	version = info.Main.Version
	if version == "" {
		version = "(devel)"
	}
	return version, info.GoVersion
}
