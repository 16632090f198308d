// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package toolset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/lima-vm/corpus-mcp/pkg/mcp/msi"
	"github.com/lima-vm/corpus-mcp/pkg/query"
)

// call runs fn and wraps its output. Failures are reported in the result with
// IsError set, never as a Go error, so that the caller always sees the message.
func (ts *ToolSet) call(tool *mcp.Tool, fields logrus.Fields, fn func() string) (*mcp.CallToolResult, msi.Result, error) {
	done := ts.metrics.StartCall(tool.Name)
	start := time.Now()
	output := fn()
	outcome := query.Classify(output)
	done(string(outcome))

	fields["tool"] = tool.Name
	fields["call"] = uuid.NewString()
	fields["outcome"] = outcome
	fields["duration"] = time.Since(start)
	entry := logrus.WithFields(fields)
	if outcome.IsError() {
		entry.Info("Tool call failed")
	} else {
		entry.Debug("Tool call")
	}

	res := msi.Result{
		Output:  output,
		Outcome: string(outcome),
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: output},
		},
		IsError: outcome.IsError(),
	}, res, nil
}

func (ts *ToolSet) ReadFile(ctx context.Context,
	_ *mcp.CallToolRequest, args msi.ReadFileParams,
) (*mcp.CallToolResult, msi.Result, error) {
	return ts.call(msi.ReadFile, logrus.Fields{"file_path": args.FilePath}, func() string {
		return ts.svc.ReadOne(ctx, args.FilePath)
	})
}

func (ts *ToolSet) ListFiles(ctx context.Context,
	_ *mcp.CallToolRequest, args msi.ListFilesParams,
) (*mcp.CallToolResult, msi.Result, error) {
	return ts.call(msi.ListFiles, logrus.Fields{"subdirectory": args.Subdirectory, "pattern": args.Pattern}, func() string {
		return ts.svc.List(ctx, args.Subdirectory, args.Pattern)
	})
}

func (ts *ToolSet) ReadMultipleFiles(ctx context.Context,
	_ *mcp.CallToolRequest, args msi.ReadMultipleFilesParams,
) (*mcp.CallToolResult, msi.Result, error) {
	return ts.call(msi.ReadMultipleFiles, logrus.Fields{"subdirectory": args.Subdirectory, "pattern": args.Pattern}, func() string {
		return ts.svc.ReadMany(ctx, args.Subdirectory, args.Pattern)
	})
}

func (ts *ToolSet) SearchFileContent(ctx context.Context,
	_ *mcp.CallToolRequest, args msi.SearchFileContentParams,
) (*mcp.CallToolResult, msi.Result, error) {
	return ts.call(msi.SearchFileContent, logrus.Fields{"search_term": args.SearchTerm, "pattern": args.Pattern}, func() string {
		return ts.svc.Search(ctx, args.SearchTerm, args.Pattern)
	})
}
