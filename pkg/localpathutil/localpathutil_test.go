// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package localpathutil

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/corpus")
	h, err := Expand("~")
	assert.NilError(t, err)
	d, err := Expand("~/docs")
	assert.NilError(t, err)
	assert.Equal(t, d, filepath.Join(h, "docs"))
}

func TestExpandRelative(t *testing.T) {
	p, err := Expand("docs")
	assert.NilError(t, err)
	assert.Assert(t, filepath.IsAbs(p))
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		orig    string
		want    string
		wantErr string
	}{
		{orig: "~/bar", want: "/home/user/bar"},
		{orig: "~", want: "/home/user"},
		{orig: "/srv/corpus", want: "/srv/corpus"},
		{orig: " ~/padded ", want: "/home/user/padded"},
		{orig: "~foo/bar", wantErr: "unexpandable path"},
		{orig: "", wantErr: "empty path"},
	}
	for _, tt := range tests {
		t.Run(tt.orig, func(t *testing.T) {
			got, err := ExpandHome(tt.orig, "/home/user")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
