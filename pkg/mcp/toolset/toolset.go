// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolset binds the tools of package msi to a query service.
package toolset

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lima-vm/corpus-mcp/pkg/mcp/msi"
	"github.com/lima-vm/corpus-mcp/pkg/metrics"
	"github.com/lima-vm/corpus-mcp/pkg/query"
)

func New(svc *query.Service, m *metrics.Metrics) *ToolSet {
	return &ToolSet{
		svc:     svc,
		metrics: m,
	}
}

type ToolSet struct {
	svc *query.Service
	// metrics may be nil.
	metrics *metrics.Metrics
}

func (ts *ToolSet) RegisterServer(server *mcp.Server) {
	mcp.AddTool(server, msi.ReadFile, ts.ReadFile)
	mcp.AddTool(server, msi.ListFiles, ts.ListFiles)
	mcp.AddTool(server, msi.ReadMultipleFiles, ts.ReadMultipleFiles)
	mcp.AddTool(server, msi.SearchFileContent, ts.SearchFileContent)
}
