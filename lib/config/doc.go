// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for fbvncserver.
//
// Configuration is loaded from a single file specified by either the
// FBVNC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. When neither is given the binary runs on [Default],
// which reproduces the historical fbvncserver behavior: /dev/fb0,
// name-based input device discovery, port 5901.
//
// Files ending in .json or .jsonc are passed through a JSONC stripper
// (comments and trailing commas removed) before decoding; everything
// else is decoded as YAML. Field names are the same in both formats.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Framebuffer, Input, Mirror, RFB, Control, Log
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other fbvnc packages.
package config
