// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the fbvnc
// binaries.
//
// Version information is injected at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/fbvnc/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Both fbvncserver and fbvnc-ctl print [Info] for --version, and the
// server reports [Short] in its control socket status so an operator
// can tell which build is serving a device.
package version
