// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package query turns catalog lookups into the human-readable strings returned
// to remote callers.
//
// Every operation of [Service] is total: failures, including panics, are
// reported as strings starting with one of the Prefix constants, and never as
// Go errors. Use [Classify] to recover the outcome of a returned string.
package query

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
	"github.com/lima-vm/corpus-mcp/pkg/textutil"
)

const separator = "============================================================"

// Service answers the four read-only operations against a catalog.
// It is safe for concurrent use.
type Service struct {
	cat         catalog.Catalog
	concurrency int
}

// Option configures a [Service].
type Option func(*Service)

// WithConcurrency limits the number of files read at the same time by [Service.ReadMany].
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(cat catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		cat:         cat,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, f := range opts {
		f(s)
	}
	return s
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() catalog.Catalog {
	return s.cat
}

// ReadOne returns the content of a single file.
func (s *Service) ReadOne(ctx context.Context, identifier string) (out string) {
	defer recoverAs(&out, msgReadError)
	r, err := s.cat.Resolve(ctx, identifier)
	if err != nil {
		return s.fileError(identifier, err, msgReadError)
	}
	text, err := r.Text(ctx)
	if err != nil {
		return s.fileError(identifier, err, msgReadError)
	}
	return fmt.Sprintf("File: %s\nPath: %s\n\nContent:\n%s", r.Name, r.Path, text)
}

// List returns the names and sizes of the files in subdirectory matching pattern.
func (s *Service) List(ctx context.Context, subdirectory, pattern string) (out string) {
	defer recoverAs(&out, msgListError)
	if pattern == "" {
		pattern = DefaultListPattern
	}
	listing, err := s.cat.Enumerate(ctx, catalog.Query{Subdirectory: subdirectory, Pattern: pattern})
	if err != nil {
		return s.dirError(subdirectory, pattern, err, msgListError)
	}
	if len(listing.Resources) == 0 {
		return fmt.Sprintf(msgNoFilesInDir, pattern)
	}
	entries := make([]string, 0, len(listing.Resources))
	for _, r := range listing.Resources {
		entries = append(entries, fmt.Sprintf("- %s (%d bytes)", r.Name, r.Size))
	}
	return fmt.Sprintf("Files in '%s' matching '%s':\n%s\n\nTotal: %d file(s)",
		s.label(listing), pattern, textutil.IndentString(2, strings.Join(entries, "\n")), len(entries))
}

// ReadMany returns the content of every file in subdirectory matching pattern.
// A file that cannot be read does not prevent the others from being returned.
func (s *Service) ReadMany(ctx context.Context, subdirectory, pattern string) (out string) {
	defer recoverAs(&out, msgReadManyError)
	if pattern == "" {
		pattern = DefaultListPattern
	}
	listing, err := s.cat.Enumerate(ctx, catalog.Query{Subdirectory: subdirectory, Pattern: pattern})
	if err != nil {
		return s.dirError(subdirectory, pattern, err, msgReadManyError)
	}
	if len(listing.Resources) == 0 {
		return fmt.Sprintf(msgNoFilesInDir, pattern)
	}
	items := LoadItems(ctx, listing.Resources, s.concurrency)
	var b strings.Builder
	fmt.Fprintf(&b, "Reading %d file(s) from '%s':\n", len(items), s.label(listing))
	for _, it := range items {
		fmt.Fprintf(&b, "\n%s\nFile: %s\n%s\n%s\n", separator, it.Resource.Name, separator, s.itemBody(it))
	}
	return b.String()
}

func (s *Service) itemBody(it Item) string {
	switch {
	case it.Err == nil:
		return it.Text
	case errors.Is(it.Err, catalog.ErrDecode):
		return BinaryPlaceholder
	case errors.Is(it.Err, catalog.ErrTooLarge):
		return fmt.Sprintf(msgTooLarge, it.Resource.Name)
	case errors.Is(it.Err, catalog.ErrPermission):
		return fmt.Sprintf(msgPermissionFile, it.Resource.Name)
	default:
		return fmt.Sprintf(msgItemError, it.Err)
	}
}

// Search returns the lines containing searchTerm, case-insensitively, in every
// file under the root whose name matches pattern.
func (s *Service) Search(ctx context.Context, searchTerm, pattern string) (out string) {
	defer recoverAs(&out, msgSearchError)
	if searchTerm == "" {
		return msgEmptySearchTerm
	}
	if pattern == "" {
		pattern = DefaultSearchPattern
	}
	res, err := s.cat.Search(ctx, searchTerm, pattern)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPattern) {
			return fmt.Sprintf(msgInvalidPattern, pattern, patternReason(err))
		}
		return fmt.Sprintf(msgSearchError, err)
	}
	if res.Matched == 0 {
		return fmt.Sprintf(msgNoFiles, pattern)
	}
	if res.Files.Len() == 0 {
		return fmt.Sprintf(msgNoMatches, searchTerm, pattern)
	}
	sections := make([]string, 0, res.Files.Len())
	for pair := res.Files.Oldest(); pair != nil; pair = pair.Next() {
		lines := make([]string, 0, len(pair.Value))
		for _, hit := range pair.Value {
			lines = append(lines, fmt.Sprintf("Line %d: %s", hit.Line, hit.Text))
		}
		sections = append(sections, fmt.Sprintf("\n%s:\n%s", pair.Key, textutil.IndentString(2, strings.Join(lines, "\n"))))
	}
	return fmt.Sprintf("Found '%s' in %d file(s):\n", searchTerm, len(sections)) + strings.Join(sections, "\n")
}

// label names the enumerated directory by the root's base name and the
// directory relative to the root.
func (s *Service) label(listing *catalog.Listing) string {
	base := filepath.Base(s.cat.Root())
	if listing.Dir == "" {
		return base
	}
	return base + "/" + listing.Dir
}

func (s *Service) fileError(identifier string, err error, generic string) string {
	switch {
	case errors.Is(err, catalog.ErrDenied):
		return fmt.Sprintf(msgDenied, s.cat.Root())
	case errors.Is(err, catalog.ErrNotRegular):
		return fmt.Sprintf(msgNotAFile, identifier)
	case errors.Is(err, catalog.ErrNotFound):
		return fmt.Sprintf(msgFileNotFound, identifier)
	case errors.Is(err, catalog.ErrPermission):
		return fmt.Sprintf(msgPermissionFile, identifier)
	case errors.Is(err, catalog.ErrDecode):
		return fmt.Sprintf(msgDecode, identifier)
	case errors.Is(err, catalog.ErrTooLarge):
		return fmt.Sprintf(msgTooLarge, identifier)
	default:
		return fmt.Sprintf(generic, err)
	}
}

func (s *Service) dirError(subdirectory, pattern string, err error, generic string) string {
	switch {
	case errors.Is(err, catalog.ErrInvalidPattern):
		return fmt.Sprintf(msgInvalidPattern, pattern, patternReason(err))
	case errors.Is(err, catalog.ErrDenied):
		return fmt.Sprintf(msgDenied, s.cat.Root())
	case errors.Is(err, catalog.ErrNotDirectory):
		return fmt.Sprintf(msgNotADirectory, subdirectory)
	case errors.Is(err, catalog.ErrNotFound):
		return fmt.Sprintf(msgSubdirNotFound, subdirectory)
	case errors.Is(err, catalog.ErrPermission):
		return fmt.Sprintf(msgPermissionDir, subdirectory)
	default:
		return fmt.Sprintf(generic, err)
	}
}

func patternReason(err error) string {
	return strings.TrimPrefix(err.Error(), catalog.ErrInvalidPattern.Error()+": ")
}

// recoverAs must be deferred directly.
func recoverAs(out *string, format string) {
	if r := recover(); r != nil {
		logrus.Errorf("recovered from panic: %v\n%s", r, debug.Stack())
		*out = fmt.Sprintf(format, r)
	}
}
