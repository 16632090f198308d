// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"os"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// openInRoot opens rel for reading without ever leaving root, even if a path
// component is replaced by a symlink after the containment check.
func openInRoot(root, rel string) (*os.File, error) {
	handle, err := securejoin.OpenInRoot(root, rel)
	if err != nil {
		return nil, err
	}
	defer handle.Close()
	return securejoin.Reopen(handle, os.O_RDONLY|syscall.O_CLOEXEC)
}
