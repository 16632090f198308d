// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"strings"
)

// Stable prefixes of the strings returned by [Service]. Callers may rely on them
// to tell failures apart without parsing the rest of the message.
const (
	PrefixDenied          = "Error: Access denied"
	PrefixNotFound        = "Error: Not found"
	PrefixDecode          = "Error: Unable to decode"
	PrefixPermission      = "Error: Permission denied"
	PrefixTooLarge        = "Error: File too large"
	PrefixInvalidPattern  = "Error: Invalid pattern"
	PrefixInvalidArgument = "Error: Invalid argument"
	PrefixNoFiles         = "No files found"
	PrefixNoMatches       = "No matches found"
	PrefixError           = "Error"
)

const (
	msgDenied          = PrefixDenied + ". Only files within '%s' are allowed."
	msgFileNotFound    = PrefixNotFound + ". File '%s' does not exist in the allowed directory."
	msgNotAFile        = PrefixNotFound + ". '%s' is not a file."
	msgSubdirNotFound  = PrefixNotFound + ". Subdirectory '%s' does not exist in the allowed directory."
	msgNotADirectory   = PrefixNotFound + ". '%s' is not a directory."
	msgPermissionFile  = PrefixPermission + " reading '%s'."
	msgPermissionDir   = PrefixPermission + " accessing '%s'."
	msgDecode          = PrefixDecode + " '%s' as text. It may be a binary file."
	msgTooLarge        = PrefixTooLarge + ". '%s' exceeds the maximum file size."
	msgInvalidPattern  = PrefixInvalidPattern + " '%s': %s"
	msgEmptySearchTerm = PrefixInvalidArgument + ": search term must not be empty."
	msgNoFilesInDir    = PrefixNoFiles + " matching pattern '%s' in the specified directory."
	msgNoFiles         = PrefixNoFiles + " matching pattern '%s'."
	msgNoMatches       = PrefixNoMatches + " for '%s' in files matching '%s'."
	msgItemError       = "Error: %v"

	msgReadError     = "Error reading file: %v"
	msgListError     = "Error listing files: %v"
	msgReadManyError = "Error reading files: %v"
	msgSearchError   = "Error searching files: %v"
)

// BinaryPlaceholder replaces the content of undecodable files in [Service.ReadMany].
const BinaryPlaceholder = "[Binary file - cannot display as text]"

const (
	DefaultListPattern   = "*"
	DefaultSearchPattern = "*.txt"
)

// Outcome classifies a string returned by [Service].
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeEmpty           Outcome = "empty"
	OutcomeDenied          Outcome = "denied"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeDecode          Outcome = "decode"
	OutcomePermission      Outcome = "permission"
	OutcomeTooLarge        Outcome = "too_large"
	OutcomeInvalidPattern  Outcome = "invalid_pattern"
	OutcomeInvalidArgument Outcome = "invalid_argument"
	OutcomeError           Outcome = "error"
)

// Outcomes lists every outcome, in a stable order.
var Outcomes = []Outcome{
	OutcomeOK,
	OutcomeEmpty,
	OutcomeDenied,
	OutcomeNotFound,
	OutcomeDecode,
	OutcomePermission,
	OutcomeTooLarge,
	OutcomeInvalidPattern,
	OutcomeInvalidArgument,
	OutcomeError,
}

// IsError reports whether the outcome is a failure. An empty result is not a failure.
func (o Outcome) IsError() bool {
	return o != OutcomeOK && o != OutcomeEmpty
}

var prefixes = []struct {
	prefix  string
	outcome Outcome
}{
	{PrefixDenied, OutcomeDenied},
	{PrefixNotFound, OutcomeNotFound},
	{PrefixDecode, OutcomeDecode},
	{PrefixPermission, OutcomePermission},
	{PrefixTooLarge, OutcomeTooLarge},
	{PrefixInvalidPattern, OutcomeInvalidPattern},
	{PrefixInvalidArgument, OutcomeInvalidArgument},
	{PrefixNoFiles, OutcomeEmpty},
	{PrefixNoMatches, OutcomeEmpty},
	// Must be last.
	{PrefixError, OutcomeError},
}

// Classify returns the outcome of a string returned by [Service].
func Classify(text string) Outcome {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p.prefix) {
			return p.outcome
		}
	}
	return OutcomeOK
}
