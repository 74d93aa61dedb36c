// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/fbvnc/lib/codec"
	"github.com/bureau-foundation/fbvnc/lib/service"
	"github.com/bureau-foundation/fbvnc/screen"
)

// Control socket actions.
const (
	ActionStatus     = "status"
	ActionCapture    = "capture"
	ActionDisconnect = "disconnect"
)

// CaptureRequest is the body of a capture action.
type CaptureRequest struct {
	Compression screen.Compression `cbor:"compression"`
}

// DisconnectResponse is the body of a disconnect response.
type DisconnectResponse struct {
	// Viewers is the count at the time of the request. The loop
	// disconnects them before its next cycle.
	Viewers int `cbor:"viewers"`
}

// RegisterActions adds the engine's control actions to server.
func (e *Engine) RegisterActions(server *service.SocketServer) {
	server.Handle(ActionStatus, e.handleStatus)
	server.Handle(ActionCapture, e.handleCapture)
	server.Handle(ActionDisconnect, e.handleDisconnect)
}

func (e *Engine) handleStatus(ctx context.Context, raw []byte) (any, error) {
	return e.Status(), nil
}

func (e *Engine) handleCapture(ctx context.Context, raw []byte) (any, error) {
	var request CaptureRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid capture request: %w", err)
	}
	pixels := e.tracker.CopyRemote(nil)
	capture, err := screen.EncodeCapture(e.tracker.Geometry(), pixels, request.Compression)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("served capture",
		"compression", capture.Compression,
		"bytes", len(capture.Data),
	)
	return capture, nil
}

func (e *Engine) handleDisconnect(ctx context.Context, raw []byte) (any, error) {
	viewers := e.Status().Viewers
	e.RequestDisconnect()
	return DisconnectResponse{Viewers: viewers}, nil
}
