// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docker/go-units"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
	"github.com/lima-vm/corpus-mcp/pkg/config"
	"github.com/lima-vm/corpus-mcp/pkg/mcp/toolset"
	"github.com/lima-vm/corpus-mcp/pkg/query"
	"github.com/lima-vm/corpus-mcp/pkg/textutil"
	"github.com/lima-vm/corpus-mcp/pkg/version"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show information about the MCP server",
		Long: `Show information about the MCP server.

The output is JSON by default. --format takes a Go template; the following
functions are available:
` + textutil.IndentString(2, "- "+strings.Join(textutil.FuncHelp, "\n- ")),
		Example: `  $ corpus-mcp info --root ~/corpus --format '{{.Catalog.Resources}} files, {{bytes .Catalog.TotalSize}}'`,
		Args:    cobra.NoArgs,
		RunE:    infoAction,
	}
	cmd.Flags().String("format", "", "Format the output using the given Go template")
	return cmd
}

func infoAction(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	info, err := inspectInfo(ctx, svc)
	if err != nil {
		return err
	}
	info.Config = cfg
	format, _ := cmd.Flags().GetString("format")
	if format != "" {
		b, err := textutil.ExecuteTemplate(format, info)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	}
	j, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}

// inspectInfo lists the tools over in-memory transports.
// svc may be nil when only the tools are needed.
func inspectInfo(ctx context.Context, svc *query.Service) (*Info, error) {
	var cat catalog.Catalog
	if svc != nil {
		cat = svc.Catalog()
	}
	server := newServer(cat)
	toolset.New(svc, nil).RegisterServer(server)
	info := &Info{
		Version: version.Version,
	}
	err := toolset.WithInMemorySession(ctx, server, func(cs *mcp.ClientSession) error {
		toolsResult, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
		if err != nil {
			return err
		}
		info.Tools = toolsResult.Tools
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cat != nil {
		summary, err := catalog.Summarize(ctx, cat)
		if err != nil {
			return nil, err
		}
		info.Catalog = &catalogInfo{
			Summary:   summary,
			HumanSize: units.HumanSize(float64(summary.TotalSize)),
		}
	}
	return info, nil
}

type Info struct {
	Version string         `json:"version"`
	Tools   []*mcp.Tool    `json:"tools"`
	Catalog *catalogInfo   `json:"catalog,omitempty"`
	Config  *config.Config `json:"config,omitempty"`
}

type catalogInfo struct {
	*catalog.Summary `yaml:",inline"`
	HumanSize        string `json:"humanSize" yaml:"humanSize"`
}
