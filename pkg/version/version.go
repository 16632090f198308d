// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

//nolint:revive // var-naming: avoid package names that conflict with Go standard library package names
package version

import "runtime/debug"

const unknown = "<unknown>"

// Version is filled on compilation time, or taken from the module build info
// when installed with `go install`.
var Version = unknown

func init() {
	if Version != unknown {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
