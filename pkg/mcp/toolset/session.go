// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package toolset

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WithInMemorySession connects a client to server over in-memory transports and
// calls fn with the client session. The sessions are closed when fn returns.
func WithInMemorySession(ctx context.Context, server *mcp.Server, fn func(*mcp.ClientSession) error) error {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return err
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return errors.Join(err, serverSession.Close())
	}
	err = fn(clientSession)
	if closeErr := clientSession.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return errors.Join(err, serverSession.Wait())
}
