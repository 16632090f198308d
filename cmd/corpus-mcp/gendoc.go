// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newGenDocCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "generate-doc DIR",
		Short:  "Generate documentation pages",
		Args:   cobra.ExactArgs(1),
		RunE:   genDocAction,
		Hidden: true,
	}
	return cmd
}

func genDocAction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fName := filepath.Join(dir, "tools.md")
	f, err := os.Create(fName)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Fprint(f, `---
title: MCP tools
---
corpus-mcp implements the "MCP Sandbox Interface" (tentative name) for read-only text corpora:
https://pkg.go.dev/github.com/lima-vm/corpus-mcp/pkg/mcp/msi

Every tool is read-only and confined to the configured root directory.
Failures are reported in the text result, which starts with "Error".

`)
	info, err := inspectInfo(ctx, nil)
	if err != nil {
		return err
	}
	for _, tool := range info.Tools {
		fmt.Fprintf(f, "## `%s`\n\n", tool.Name)
		if tool.Title != "" {
			fmt.Fprintf(f, "### Title\n\n%s\n\n", tool.Title)
		}
		if tool.Description != "" {
			fmt.Fprintf(f, "### Description\n\n%s\n\n", tool.Description)
		}
		if tool.InputSchema != nil {
			fmt.Fprint(f, "### Input Schema\n\n")
			schema, err := json.MarshalIndent(tool.InputSchema, "", "    ")
			if err != nil {
				return err
			}
			fmt.Fprintf(f, "```json\n%s\n```\n\n", string(schema))
		}
		if tool.OutputSchema != nil {
			fmt.Fprint(f, "### Output Schema\n\n")
			schema, err := json.MarshalIndent(tool.OutputSchema, "", "    ")
			if err != nil {
				return err
			}
			fmt.Fprintf(f, "```json\n%s\n```\n\n", string(schema))
		}
	}
	return f.Close()
}
