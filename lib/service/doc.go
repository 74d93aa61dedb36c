// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the local control socket used to inspect
// and steer a running fbvncserver.
//
// The protocol is one CBOR request and one CBOR response per Unix
// socket connection. Requests are CBOR maps with an "action" field
// plus action-specific fields; responses are the [Response] envelope
// {ok, error, data}. CBOR is self-delimiting, so no framing is needed.
//
//   - [SocketServer] registers [ActionFunc] handlers by action name and
//     serves them until its context is cancelled, draining in-flight
//     connections before returning.
//   - [Client] opens a connection per [Client.Call] and decodes the
//     response data into a caller-provided value.
//
// The socket has no authentication. Access is controlled by the file
// mode of the socket path (0600, owner only) and the directory it
// lives in.
package service
