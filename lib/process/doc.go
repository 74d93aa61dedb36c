// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the fbvnc
// binaries. It centralizes the one legitimate raw I/O pattern that
// exists outside the structured logger: reporting a fatal startup
// error (framebuffer cannot be opened or mapped, a mandatory input
// device is missing, the config file is invalid) to stderr before the
// logger is configured, then exiting.
package process
