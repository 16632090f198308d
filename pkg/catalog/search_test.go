// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestFindHits(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		needle string
		want   []Hit
	}{
		{name: "empty", text: "", needle: "x"},
		{name: "case insensitive", text: "Foo\nbar\nFOO bar\n", needle: "foo", want: []Hit{{1, "Foo"}, {3, "FOO bar"}}},
		{name: "trailing whitespace trimmed", text: "x  \t\r\n", needle: "x", want: []Hit{{1, "x"}}},
		{name: "leading whitespace kept", text: "\n  x\n", needle: "x", want: []Hit{{2, "  x"}}},
		{name: "no trailing newline", text: "a\nb x", needle: "x", want: []Hit{{2, "b x"}}},
		{name: "no hit", text: "a\nb\n", needle: "z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.DeepEqual(t, findHits(tc.text, tc.needle), tc.want)
		})
	}
}
