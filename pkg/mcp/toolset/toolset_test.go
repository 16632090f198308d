// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package toolset

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
	"github.com/lima-vm/corpus-mcp/pkg/mcp/msi"
	"github.com/lima-vm/corpus-mcp/pkg/metrics"
	"github.com/lima-vm/corpus-mcp/pkg/query"
)

func newTestServer(t *testing.T, m *metrics.Metrics) *mcp.Server {
	t.Helper()
	dir := fs.NewDir(t, "toolset",
		fs.WithFile("a.txt", "alpha\nbeta\n"),
		fs.WithFile("b.txt", "gamma\n"),
		fs.WithDir("sub", fs.WithFile("c.md", "beta again\n")),
	)
	cat, err := catalog.NewDisk(dir.Path())
	assert.NilError(t, err)
	server := mcp.NewServer(&mcp.Implementation{Name: "test"}, nil)
	New(query.New(cat), m).RegisterServer(server)
	return server
}

func TestListTools(t *testing.T) {
	server := newTestServer(t, nil)
	ctx := context.Background()
	err := WithInMemorySession(ctx, server, func(cs *mcp.ClientSession) error {
		res, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
		if err != nil {
			return err
		}
		var names []string
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
			assert.Assert(t, tool.Annotations != nil, tool.Name)
			assert.Assert(t, tool.Annotations.ReadOnlyHint, tool.Name)
			assert.Assert(t, tool.InputSchema != nil, tool.Name)
		}
		var want []string
		for _, tool := range msi.Tools {
			want = append(want, tool.Name)
		}
		slices.Sort(names)
		slices.Sort(want)
		assert.DeepEqual(t, names, want)
		return nil
	})
	assert.NilError(t, err)
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	assert.Equal(t, len(res.Content), 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	assert.Assert(t, ok)
	return text.Text
}

func TestCallTool(t *testing.T) {
	m := metrics.New()
	server := newTestServer(t, m)
	ctx := context.Background()

	tests := []struct {
		name        string
		tool        string
		args        map[string]any
		wantPrefix  string
		wantIsError bool
	}{
		{
			name:       "read",
			tool:       msi.ReadFile.Name,
			args:       map[string]any{"file_path": "a.txt"},
			wantPrefix: "File: a.txt\n",
		},
		{
			name:        "read outside",
			tool:        msi.ReadFile.Name,
			args:        map[string]any{"file_path": "../../etc/passwd"},
			wantPrefix:  query.PrefixDenied,
			wantIsError: true,
		},
		{
			name:       "list",
			tool:       msi.ListFiles.Name,
			args:       map[string]any{"pattern": "*.txt"},
			wantPrefix: "Files in '",
		},
		{
			name:       "list empty is not an error",
			tool:       msi.ListFiles.Name,
			args:       map[string]any{"pattern": "*.go"},
			wantPrefix: query.PrefixNoFiles,
		},
		{
			name:       "read many",
			tool:       msi.ReadMultipleFiles.Name,
			args:       map[string]any{"subdirectory": "sub"},
			wantPrefix: "Reading 1 file(s) from '",
		},
		{
			name:       "search",
			tool:       msi.SearchFileContent.Name,
			args:       map[string]any{"search_term": "beta", "pattern": "*"},
			wantPrefix: "Found 'beta' in 2 file(s):",
		},
		{
			name:        "search with bad pattern",
			tool:        msi.SearchFileContent.Name,
			args:        map[string]any{"search_term": "beta", "pattern": "[a"},
			wantPrefix:  query.PrefixInvalidPattern,
			wantIsError: true,
		},
	}
	err := WithInMemorySession(ctx, server, func(cs *mcp.ClientSession) error {
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: tc.tool, Arguments: tc.args})
				assert.NilError(t, err)
				text := textOf(t, res)
				assert.Assert(t, strings.HasPrefix(text, tc.wantPrefix), text)
				assert.Equal(t, res.IsError, tc.wantIsError)
			})
		}
		return nil
	})
	assert.NilError(t, err)

	// One series per (tool, outcome) pair seen above.
	n, err := testutil.GatherAndCount(m.Registry(), "corpus_mcp_tool_calls_total")
	assert.NilError(t, err)
	assert.Equal(t, n, 7)
}
