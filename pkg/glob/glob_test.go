// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package glob

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*", "anything.txt", true},
		{"*", ".hidden", true},
		{"*.txt", "notes.txt", true},
		{"*.txt", "notes.TXT", false},
		{"*.txt", "notes.txt.bak", false},
		{"*.md", "README.md", true},
		{"a*b*c", "abc", true},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "aXXbYY", false},
		{"a**c", "abbbc", true},
		{"?.go", "a.go", true},
		{"?.go", "ab.go", false},
		{"?", "é", true},
		{"report-[0-9].csv", "report-7.csv", true},
		{"report-[0-9].csv", "report-x.csv", false},
		{"[!a]*", "apple", false},
		{"[!a]*", "banana", true},
		{"[^a]*", "banana", true},
		{"[]]x", "]x", true},
		{"[a-]", "-", true},
		{"[abc]", "b", true},
		{"[abc]", "d", false},
		{"exact.txt", "exact.txt", true},
		{"exact.txt", "Exact.txt", false},
		{"*.nonexistent_ext", "a.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.name, func(t *testing.T) {
			got, err := Match(tt.pattern, tt.name)
			assert.NilError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileRejects(t *testing.T) {
	for _, pattern := range []string{
		"",
		"[abc",
		"[",
		"[!",
		"sub/*.txt",
		`..\*.txt`,
		"[z-a]",
		"\xff*",
	} {
		t.Run(pattern, func(t *testing.T) {
			_, err := Compile(pattern)
			assert.Assert(t, errors.Is(err, ErrBadPattern), "got %v", err)
		})
	}
}

func TestZeroPatternMatchesNothing(t *testing.T) {
	var p *Pattern
	assert.Assert(t, !p.Match("a"))
	assert.Assert(t, !(&Pattern{}).Match(""))
}

func TestPatternString(t *testing.T) {
	p, err := Compile("*.txt")
	assert.NilError(t, err)
	assert.Equal(t, "*.txt", p.String())
}
