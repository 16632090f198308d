// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package msi provides the "MCP Sandbox Interface" (tentative):
// MCP (Model Context Protocol) tools for reading, listing, and searching
// text files confined to a single root directory.
//
// Every tool is read-only. Identifiers supplied by the caller are resolved by
// package catalog, which guarantees that nothing outside the root is ever read.
//
// Notable properties of the tools:
//   - the output is human-readable text, mirrored in [Result].Output
//   - failures are reported in the output, not as protocol errors; [Result].Outcome
//     classifies them
//   - patterns are restricted globs over base names (see package glob)
package msi
