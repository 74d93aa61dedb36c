// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// fbvnc-ctl talks to a running fbvncserver over its control socket.
//
//	fbvnc-ctl status
//	fbvnc-ctl capture [--compression zstd|lz4|none] [--format png|raw] --output file
//	fbvnc-ctl disconnect
//
// The socket path comes from --socket, else from the server's
// configuration (--config or $FBVNC_CONFIG). With --raw the response
// is printed in CBOR diagnostic notation instead of being decoded.
package main
