// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package msi

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lima-vm/corpus-mcp/pkg/ptr"
)

// ReadOnly annotates every tool of this package.
var ReadOnly = &mcp.ToolAnnotations{
	ReadOnlyHint:    true,
	IdempotentHint:  true,
	DestructiveHint: ptr.Of(false),
	OpenWorldHint:   ptr.Of(false),
}

var ReadFile = &mcp.Tool{
	Name: "read_file",
	Description: `Reads the content of a text file in the allowed directory.
A bare file name is looked up in the allowed directory.`,
	Annotations: ReadOnly,
}

type ReadFileParams struct {
	FilePath string `json:"file_path" jsonschema:"The path to the file to read: absolute, relative to the allowed directory, or just a file name."`
}

var ListFiles = &mcp.Tool{
	Name:        "list_files",
	Description: `Lists the files in the allowed directory, or in a subdirectory of it, with their sizes.`,
	Annotations: ReadOnly,
}

type ListFilesParams struct {
	Subdirectory string `json:"subdirectory,omitempty" jsonschema:"Optional subdirectory of the allowed directory (e.g., 'subdir1/subdir2'). Defaults to the allowed directory itself."`
	Pattern      string `json:"pattern,omitempty" jsonschema:"Optional glob pattern matched against file names (e.g., '*.txt'). Supports '*', '?' and '[...]'. Defaults to '*'."`
}

var ReadMultipleFiles = &mcp.Tool{
	Name: "read_multiple_files",
	Description: `Reads the content of every file in the allowed directory, or in a subdirectory of it, matching a pattern.
Files that cannot be read are reported inline.`,
	Annotations: ReadOnly,
}

type ReadMultipleFilesParams struct {
	Subdirectory string `json:"subdirectory,omitempty" jsonschema:"Optional subdirectory of the allowed directory. Defaults to the allowed directory itself."`
	Pattern      string `json:"pattern,omitempty" jsonschema:"Optional glob pattern matched against file names (e.g., '*.txt'). Defaults to '*'."`
}

var SearchFileContent = &mcp.Tool{
	Name:        "search_file_content",
	Description: `Searches, case-insensitively, for a term within every file under the allowed directory whose name matches a pattern, and returns the matching lines with their line numbers.`,
	Annotations: ReadOnly,
}

type SearchFileContentParams struct {
	SearchTerm string `json:"search_term" jsonschema:"The text to search for."`
	Pattern    string `json:"pattern,omitempty" jsonschema:"Optional glob pattern matched against file names (e.g., '*.txt'). Defaults to '*.txt'."`
}

// Result is the structured result of every tool.
type Result struct {
	Output  string `json:"output" jsonschema:"The human-readable result, identical to the text content."`
	Outcome string `json:"outcome" jsonschema:"Classification of the result: ok, empty, denied, not_found, decode, permission, too_large, invalid_pattern, invalid_argument, or error."`
}

// Tools lists every tool of this package.
var Tools = []*mcp.Tool{
	ReadFile,
	ListFiles,
	ReadMultipleFiles,
	SearchFileContent,
}
