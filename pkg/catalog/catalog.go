// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog resolves caller-supplied identifiers into text resources
// confined to a single root directory.
//
// Two backends implement [Catalog]: [Disk] re-reads the filesystem on every call,
// and [Memory] serves a snapshot taken once by [LoadMemory]. Every path is
// canonicalized (symlinks, "." and ".." resolved) before it is compared against
// the root, and every enumerated file is resolved again individually, so neither
// traversal nor symlinks can reach content outside the root.
package catalog

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"unicode/utf8"

	"github.com/lima-vm/corpus-mcp/pkg/glob"
)

const (
	BackendDisk   = "disk"
	BackendMemory = "memory"
)

// DefaultMaxFileSize is the default limit for reading a single file.
const DefaultMaxFileSize = 32 * 1024 * 1024

// Catalog is the read-only lookup and enumeration contract shared by the backends.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Root returns the canonical root directory.
	Root() string
	// Backend returns [BackendDisk] or [BackendMemory].
	Backend() string
	// Resolve returns the resource for an absolute path, a path relative to the root,
	// or a bare name.
	Resolve(ctx context.Context, identifier string) (*Resource, error)
	// Enumerate lists the regular files matching q.
	Enumerate(ctx context.Context, q Query) (*Listing, error)
	// Search finds the lines containing term, case-insensitively, in every file
	// under the root whose name matches pattern.
	Search(ctx context.Context, term, pattern string) (*SearchResult, error)
}

// Query selects resources for [Catalog.Enumerate].
type Query struct {
	// Subdirectory is relative to the root. Empty means the root.
	Subdirectory string
	// Pattern is matched against base names. See package glob.
	Pattern string
	// Recursive includes the whole subtree instead of the direct children.
	Recursive bool
}

// Listing is the result of [Catalog.Enumerate].
type Listing struct {
	// Dir is the enumerated directory relative to the root, slash-separated.
	// The root itself is "".
	Dir string
	// Resources are sorted by name, then by RelPath.
	Resources []*Resource
}

// Resource is a readable text file under the root.
type Resource struct {
	Name    string
	Path    string
	RelPath string
	Size    int64
	// Digest is the hex BLAKE3 digest of the content, set by the memory backend only.
	Digest string

	load func(ctx context.Context) ([]byte, error)
}

// Text returns the content of the resource.
// Content that is not valid UTF-8 yields [ErrDecode].
func (r *Resource) Text(ctx context.Context) (string, error) {
	b, err := r.bytes(ctx)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q", ErrDecode, r.Name)
	}
	return string(b), nil
}

func (r *Resource) bytes(ctx context.Context) ([]byte, error) {
	if r.load == nil {
		return nil, fmt.Errorf("%w: %q has no content", ErrNotFound, r.Name)
	}
	return r.load(ctx)
}

// key identifies the resource in search results.
func (r *Resource) key() string {
	if r.RelPath != "" {
		return r.RelPath
	}
	return r.Name
}

func sortResources(rs []*Resource) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Name != rs[j].Name {
			return rs[i].Name < rs[j].Name
		}
		return rs[i].RelPath < rs[j].RelPath
	})
}

func compilePattern(pattern string) (*glob.Pattern, error) {
	p, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return p, nil
}

type options struct {
	maxFileSize int64
	concurrency int
}

// Option configures a backend.
type Option func(*options)

// WithMaxFileSize limits the size of a single file. Larger files yield [ErrTooLarge].
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFileSize = n
		}
	}
}

// WithConcurrency limits the number of files read at the same time.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		maxFileSize: DefaultMaxFileSize,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, f := range opts {
		f(&o)
	}
	return o
}

// Open returns a catalog of the given backend for root.
// The memory backend is loaded before Open returns.
func Open(ctx context.Context, backend, root string, opts ...Option) (Catalog, error) {
	switch backend {
	case "", BackendDisk:
		return NewDisk(root, opts...)
	case BackendMemory:
		return LoadMemory(ctx, root, opts...)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q (expected %q or %q)", backend, BackendDisk, BackendMemory)
	}
}
