// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lima-vm/corpus-mcp/pkg/config"
	"github.com/lima-vm/corpus-mcp/pkg/mcp/toolset"
)

func newCallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call TOOL [KEY=VALUE]...",
		Short: "Call a tool once and print its text result",
		Long: `Call a tool once, over an in-memory session, and print its text result.

Intended for debugging. Run "corpus-mcp info" for the tools and their parameters.`,
		Example: `  $ corpus-mcp call --root ~/corpus list_files pattern='*.txt'
  $ corpus-mcp call --root ~/corpus search_file_content search_term=mcp`,
		Args: cobra.MinimumNArgs(1),
		RunE: callAction,
	}
	return cmd
}

func parseToolArgs(args []string) (map[string]any, error) {
	m := make(map[string]any, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		m[k] = v
	}
	return m, nil
}

func callAction(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	toolArgs, err := parseToolArgs(args[1:])
	if err != nil {
		return err
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	server := newServer(svc.Catalog())
	toolset.New(svc, nil).RegisterServer(server)
	var res *mcp.CallToolResult
	err = toolset.WithInMemorySession(ctx, server, func(cs *mcp.ClientSession) error {
		var err error
		res, err = cs.CallTool(ctx, &mcp.CallToolParams{
			Name:      args[0],
			Arguments: toolArgs,
		})
		return err
	})
	if err != nil {
		return err
	}
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			fmt.Fprintln(cmd.OutOrStdout(), text.Text)
		}
	}
	if res.IsError {
		return fmt.Errorf("tool %q reported an error", args[0])
	}
	return nil
}
