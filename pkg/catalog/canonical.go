// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lima-vm/corpus-mcp/pkg/localpathutil"
)

// CanonicalRoot expands "~", makes root absolute, resolves its symlinks,
// and checks that it is a directory.
func CanonicalRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.New("root directory is not configured")
	}
	expanded, err := localpathutil.Expand(root)
	if err != nil {
		return "", fmt.Errorf("failed to expand root %q: %w", root, err)
	}
	resolved, err := filepath.EvalSymlinks(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	st, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("root %q is not a directory", resolved)
	}
	return resolved, nil
}

// maxSymlinks bounds the links followed while canonicalizing one path.
const maxSymlinks = 255

var errSymlinkLoop = errors.New("too many levels of symbolic links")

// canonicalize resolves the absolute path p to a symlink-free absolute path.
//
// Components are walked one at a time. A symlink is replaced by its target
// before the following components are applied, so "link/.." means the parent
// of the link target. A missing component is kept as is, and the walk goes on:
// "missing/../link" still resolves link.
func canonicalize(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return "", fmt.Errorf("expected an absolute path, got %q", p)
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved, nil
	} else if !isMissing(err) {
		return "", err
	}

	vol := filepath.VolumeName(p)
	resolved := vol + string(filepath.Separator)
	pending := splitPath(p[len(vol):])
	links := 0
	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]
		switch part {
		case ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}
		next := filepath.Join(resolved, part)
		st, err := os.Lstat(next)
		if err != nil {
			if !isMissing(err) {
				return "", err
			}
			resolved = next
			continue
		}
		if st.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}
		links++
		if links > maxSymlinks {
			return "", &fs.PathError{Op: "canonicalize", Path: p, Err: errSymlinkLoop}
		}
		target, err := os.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			tvol := filepath.VolumeName(target)
			resolved = tvol + string(filepath.Separator)
			target = target[len(tvol):]
		}
		pending = append(splitPath(target), pending...)
	}
	return resolved, nil
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r < 0x80 && os.IsPathSeparator(uint8(r))
	})
}

func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// within reports whether target is root or a descendant of root.
// Both paths must already be canonical.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// relSlash returns target relative to root, slash-separated. The root itself is "".
func relSlash(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
