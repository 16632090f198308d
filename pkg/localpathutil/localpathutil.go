// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package localpathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" of orig with homeDir.
// Paths like "~foo/bar" are unsupported.
func ExpandHome(orig, homeDir string) (string, error) {
	s := strings.TrimSpace(orig)
	if s == "" {
		return "", errors.New("empty path")
	}
	if !strings.HasPrefix(s, "~") {
		return s, nil
	}
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return "", fmt.Errorf("unexpandable path %q", orig)
	}
	if homeDir == "" {
		return "", fmt.Errorf("cannot expand %q: home directory is unknown", orig)
	}
	return homeDir + s[1:], nil
}

// Expand expands "~" like [ExpandHome] and returns an absolute path.
// The home directory is only looked up when orig starts with "~".
func Expand(orig string) (string, error) {
	s := strings.TrimSpace(orig)
	if strings.HasPrefix(s, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if s, err = ExpandHome(s, homeDir); err != nil {
			return "", err
		}
	} else if s == "" {
		return "", errors.New("empty path")
	}
	return filepath.Abs(s)
}
