// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package catalog

import (
	"os"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// openInRoot opens rel for reading. Symlinks in rel are scoped to root, so
// a link swapped in after the caller's check cannot point the read elsewhere.
func openInRoot(root, rel string) (*os.File, error) {
	p, err := securejoin.SecureJoin(root, rel)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
