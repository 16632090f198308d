// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
	"github.com/lima-vm/corpus-mcp/pkg/config"
	"github.com/lima-vm/corpus-mcp/pkg/mcp/toolset"
	"github.com/lima-vm/corpus-mcp/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP",
		Long: `Serve MCP over stdio (default), streamable HTTP, or SSE.

With --transport=stdio, the server is expected to be executed via an AI agent, not by a human.
With --transport=http (streamable HTTP) or --transport=sse (HTTP with server-sent events),
MCP is served at / and the server also exposes /metrics and /healthz.`,
		Args: cobra.NoArgs,
		RunE: serveAction,
	}
	return cmd
}

func serveAction(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	summary, err := catalog.Summarize(ctx, svc.Catalog())
	if err != nil {
		return err
	}
	m := metrics.New()
	m.SetResources(summary.Backend, summary.Resources)

	server := newServer(svc.Catalog())
	toolset.New(svc, m).RegisterServer(server)
	logrus.WithFields(logrus.Fields{
		"root":      summary.Root,
		"backend":   summary.Backend,
		"resources": summary.Resources,
		"transport": cfg.Transport,
	}).Info("Serving MCP")

	switch cfg.Transport {
	case config.TransportHTTP, config.TransportSSE:
		return serveHTTP(ctx, cfg.Listen, newHTTPHandler(cfg.Transport, server, m))
	default:
		return server.Run(ctx, &mcp.StdioTransport{})
	}
}

// newHTTPHandler serves MCP at "/" over the given transport, which is
// either [config.TransportHTTP] or [config.TransportSSE].
func newHTTPHandler(transport string, server *mcp.Server, m *metrics.Metrics) http.Handler {
	getServer := func(*http.Request) *mcp.Server {
		return server
	}
	mux := http.NewServeMux()
	if transport == config.TransportSSE {
		mux.Handle("/", mcp.NewSSEHandler(getServer, nil))
	} else {
		mux.Handle("/", mcp.NewStreamableHTTPHandler(getServer, nil))
	}
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	return mux
}

// serveHTTP serves until ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("Listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve on %q: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Warn("Failed to shut down the HTTP server cleanly")
		return err
	}
	return nil
}
