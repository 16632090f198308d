// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package textutil

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestExecuteTemplate(t *testing.T) {
	type X struct {
		Foo  int    `json:"foo" yaml:"foo"`
		Bar  string `json:"bar" yaml:"bar"`
		Size int64  `json:"size" yaml:"size"`
	}
	x := X{Foo: 42, Bar: "hello", Size: 32 * 1024 * 1024}

	testCases := map[string]string{
		"{{json .}}": `{"foo":42,"bar":"hello","size":33554432}`,
		"{{yaml .}}": `---
foo: 42
bar: hello
size: 33554432`,
		`{{indent 4 .Bar}}`:     "    hello",
		`{{missing "none" ""}}`: "none",
		`{{bytes .Size}}`:       "32MiB",
	}

	for format, expected := range testCases {
		b, err := ExecuteTemplate(format, x)
		assert.NilError(t, err, format)
		assert.Equal(t, expected, string(b), format)
	}
}

func TestIndentString(t *testing.T) {
	assert.Equal(t, IndentString(2, "a\n\nb"), "  a\n\n  b")
	assert.Equal(t, PrefixString("> ", "a"), "> a")
	assert.Equal(t, IndentString(2, ""), "")
}
