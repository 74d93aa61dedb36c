// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/fbvnc/lib/evdev"
)

// DefaultDevicePattern enumerates the kernel's event nodes.
const DefaultDevicePattern = "/dev/input/event%d"

// Locator finds an input node whose name matches a keyword.
type Locator struct {
	// Pattern is a printf pattern with one %d for the node index.
	Pattern string

	// NameOf returns a node's device name. Nodes it fails on are
	// skipped.
	NameOf func(path string) (string, error)

	Logger *slog.Logger
}

// NewLocator returns a Locator over /dev/input/event* using
// EVIOCGNAME.
func NewLocator(logger *slog.Logger) *Locator {
	return &Locator{
		Pattern: DefaultDevicePattern,
		NameOf:  evdev.ReadName,
		Logger:  logger,
	}
}

// Locate probes nodes 0 through maxIndex-1 and returns the one whose
// name contains the earliest keyword in patterns. When two nodes match
// the same keyword, the lower index wins.
func (l *Locator) Locate(maxIndex int, patterns []string) (path, keyword string, ok bool) {
	best := -1
	for index := 0; index < maxIndex; index++ {
		candidate := fmt.Sprintf(l.Pattern, index)
		name, err := l.NameOf(candidate)
		if err != nil {
			l.debug("skipping input node", "path", candidate, "error", err)
			continue
		}
		for score, pattern := range patterns {
			if !strings.Contains(name, pattern) {
				continue
			}
			if best < 0 || score < best {
				best = score
				path = candidate
				keyword = pattern
			}
			break
		}
	}
	if best < 0 {
		return "", "", false
	}
	if l.Logger != nil {
		l.Logger.Info("found input device", "path", path, "keyword", keyword)
	}
	return path, keyword, true
}

func (l *Locator) debug(message string, args ...any) {
	if l.Logger != nil {
		l.Logger.Debug(message, args...)
	}
}

// Resolve picks a node path: explicit if set, else the best discovered
// match, else fallback. Empty means no device at all.
func (l *Locator) Resolve(explicit string, maxIndex int, patterns []string, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if path, _, ok := l.Locate(maxIndex, patterns); ok {
		return path
	}
	l.debug("no input device matched, using fallback", "patterns", patterns, "fallback", fallback)
	return fallback
}
