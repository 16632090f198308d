// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestSummarize(t *testing.T) {
	dir := fs.NewDir(t, "catalog",
		fs.WithFile("a.txt", "12345"),
		fs.WithFile("b.txt", "123"),
		fs.WithDir("sub", fs.WithFile("c.txt", "ignored")),
	)
	ctx := context.Background()

	disk, err := NewDisk(dir.Path())
	assert.NilError(t, err)
	s, err := Summarize(ctx, disk)
	assert.NilError(t, err)
	assert.Equal(t, s.Backend, BackendDisk)
	assert.Equal(t, s.Resources, 2)
	assert.Equal(t, s.TotalSize, int64(8))
	assert.Equal(t, s.Fingerprint, "")

	mem, err := LoadMemory(ctx, dir.Path())
	assert.NilError(t, err)
	s, err = Summarize(ctx, mem)
	assert.NilError(t, err)
	assert.Equal(t, s.Backend, BackendMemory)
	assert.Equal(t, s.Resources, 2)
	assert.Equal(t, s.TotalSize, int64(8))
	assert.Equal(t, s.Fingerprint, mem.Fingerprint())
}
