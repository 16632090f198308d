// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Outcome
	}{
		{"File: a.txt\nPath: /x/a.txt\n\nContent:\nError: inside the file", OutcomeOK},
		{"Files in 'root' matching '*':\n  - a (1 bytes)", OutcomeOK},
		{"Found 'x' in 1 file(s):\n", OutcomeOK},
		{"No files found matching pattern '*' in the specified directory.", OutcomeEmpty},
		{"No files found matching pattern '*'.", OutcomeEmpty},
		{"No matches found for 'x' in files matching '*.txt'.", OutcomeEmpty},
		{"Error: Access denied. Only files within '/x' are allowed.", OutcomeDenied},
		{"Error: Not found. 'x' is not a file.", OutcomeNotFound},
		{"Error: Unable to decode 'x' as text. It may be a binary file.", OutcomeDecode},
		{"Error: Permission denied reading 'x'.", OutcomePermission},
		{"Error: File too large. 'x' exceeds the maximum file size.", OutcomeTooLarge},
		{"Error: Invalid pattern '[': unterminated character class", OutcomeInvalidPattern},
		{"Error: Invalid argument: search term must not be empty.", OutcomeInvalidArgument},
		{"Error reading file: boom", OutcomeError},
		{"Error searching files: context canceled", OutcomeError},
		{"", OutcomeOK},
	}
	for _, tc := range tests {
		t.Run(string(tc.want), func(t *testing.T) {
			assert.Equal(t, Classify(tc.text), tc.want)
		})
	}
}

func TestOutcomeIsError(t *testing.T) {
	for _, o := range Outcomes {
		want := o != OutcomeOK && o != OutcomeEmpty
		assert.Equal(t, o.IsError(), want, string(o))
	}
}
