// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bureau-foundation/fbvnc/lib/codec"
)

// dialTimeout covers only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for a response
// after writing the request.
const responseReadTimeout = 45 * time.Second

// maxResponseSize bounds a single CBOR response. It must hold an
// uncompressed capture of the largest supported panel.
const maxResponseSize = 64 * 1024 * 1024

// ServiceError is returned by Call when the server responds with
// ok=false.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("control error on %q: %s", e.Action, e.Message)
}

// Client sends CBOR requests to a control socket. Each Call opens a
// new connection.
type Client struct {
	socketPath string
}

// NewClient returns a client for the socket at socketPath. Nothing is
// dialed until Call.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Call sends {action, fields...} and decodes the response data into
// result (if both are non-nil). The fields map must not contain an
// "action" key.
//
// A response with ok=false is returned as *ServiceError. Connection
// and encoding errors are returned as plain errors.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action

	response, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.socketPath, err)
	}

	if !response.OK {
		return &ServiceError{
			Action:  action,
			Message: response.Error,
		}
	}

	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", action, err)
		}
	}

	return nil
}

// send connects, writes the request, and reads the response.
func (c *Client) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close so the server's read side sees EOF cleanly.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	if _, ok := ctx.Deadline(); !ok {
		conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	}
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &response, nil
}
