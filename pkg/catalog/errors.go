// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

var (
	// ErrDenied is returned when a canonicalized path is outside of the root.
	ErrDenied = errors.New("access denied")
	// ErrNotFound is returned when a path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotRegular is returned when a path exists but is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
	// ErrNotDirectory is returned when a subdirectory exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrDecode is returned when content is not valid UTF-8 text.
	ErrDecode = errors.New("not valid UTF-8 text")
	// ErrPermission is returned when the underlying storage refuses access.
	ErrPermission = errors.New("permission denied")
	// ErrTooLarge is returned when a file exceeds the configured maximum size.
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidPattern is returned for patterns rejected by the glob matcher.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// classifyFSError maps filesystem errors to the sentinels above.
// Errors that are not anticipated are returned wrapped but unclassified.
func classifyFSError(subject string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%w: %q", ErrNotFound, subject)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %q", ErrPermission, subject)
	default:
		return fmt.Errorf("%q: %w", subject, err)
	}
}
