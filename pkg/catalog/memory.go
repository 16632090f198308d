// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// Memory serves the top-level text files of a directory, captured once by
// [LoadMemory]. A Memory is immutable and needs no locking.
type Memory struct {
	root        string
	names       []string
	resources   map[string]*Resource
	totalSize   int64
	fingerprint string
	opts        options
}

var _ Catalog = (*Memory)(nil)

// LoadMemory snapshots the regular files directly under root.
//
// Files are resolved through a [Disk] catalog, so symlinks leaving the root are
// never captured. Files that cannot be read, are too large, or are not valid
// UTF-8 are left out with a warning.
func LoadMemory(ctx context.Context, root string, opts ...Option) (*Memory, error) {
	disk, err := NewDisk(root, opts...)
	if err != nil {
		return nil, err
	}
	listing, err := disk.Enumerate(ctx, Query{Pattern: "*"})
	if err != nil {
		return nil, err
	}

	contents := make([][]byte, len(listing.Resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(disk.opts.concurrency)
	for i, r := range listing.Resources {
		g.Go(func() error {
			b, err := r.bytes(gctx)
			if err == nil && !utf8.Valid(b) {
				err = fmt.Errorf("%w: %q", ErrDecode, r.Name)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logrus.WithError(err).Warnf("leaving %q out of the memory catalog", r.Name)
				return nil
			}
			if b == nil {
				b = []byte{}
			}
			contents[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Memory{
		root:      disk.root,
		resources: make(map[string]*Resource, len(listing.Resources)),
		opts:      disk.opts,
	}
	fp := blake3.New()
	for i, r := range listing.Resources {
		b := contents[i]
		if b == nil {
			continue
		}
		sum := blake3.Sum256(b)
		m.names = append(m.names, r.Name)
		m.resources[r.Name] = &Resource{
			Name:    r.Name,
			Path:    r.Path,
			RelPath: r.Name,
			Size:    int64(len(b)),
			Digest:  hex.EncodeToString(sum[:]),
			load: func(context.Context) ([]byte, error) {
				return b, nil
			},
		}
		m.totalSize += int64(len(b))
		fmt.Fprintf(fp, "%s\x00%x\n", r.Name, sum)
	}
	m.fingerprint = hex.EncodeToString(fp.Sum(nil))
	logrus.WithFields(logrus.Fields{
		"root":        m.root,
		"resources":   len(m.names),
		"size":        units.BytesSize(float64(m.totalSize)),
		"fingerprint": m.fingerprint,
	}).Info("Loaded memory catalog")
	return m, nil
}

func (m *Memory) Root() string {
	return m.root
}

func (m *Memory) Backend() string {
	return BackendMemory
}

// Len returns the number of resources.
func (m *Memory) Len() int {
	return len(m.names)
}

// TotalSize returns the sum of the resource sizes in bytes.
func (m *Memory) TotalSize() int64 {
	return m.totalSize
}

// Fingerprint is a BLAKE3 digest over the names and contents of all resources.
// Loading the same directory contents again yields the same fingerprint.
func (m *Memory) Fingerprint() string {
	return m.fingerprint
}

// lexical joins identifier to the root and cleans it. The memory catalog does
// no I/O after loading, so symlinks were already resolved by [LoadMemory].
func (m *Memory) lexical(identifier string) (string, error) {
	p := identifier
	if !filepath.IsAbs(p) {
		p = filepath.Join(m.root, p)
	}
	p = filepath.Clean(p)
	if !within(m.root, p) && filepath.IsAbs(identifier) {
		// The root may be spelled through a symlink, e.g. /tmp on macOS.
		// Only the directory is resolved: the name itself is looked up in the table.
		if dir, err := canonicalize(filepath.Dir(p)); err == nil {
			p = filepath.Join(dir, filepath.Base(p))
		}
	}
	if !within(m.root, p) {
		return "", fmt.Errorf("%w: %q resolves to %q, outside of %q", ErrDenied, identifier, p, m.root)
	}
	return p, nil
}

func (m *Memory) Resolve(ctx context.Context, identifier string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := m.lexical(identifier)
	if err != nil {
		return nil, err
	}
	if p == m.root {
		return nil, fmt.Errorf("%w: %q", ErrNotRegular, filepath.Base(p))
	}
	name := filepath.Base(p)
	r, ok := m.resources[name]
	if !ok || filepath.Dir(p) != m.root {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r, nil
}

// Enumerate matches q.Pattern against the resource names. The memory catalog
// is flat: a subdirectory is checked against the root and otherwise ignored.
func (m *Memory) Enumerate(ctx context.Context, q Query) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern, err := compilePattern(q.Pattern)
	if err != nil {
		return nil, err
	}
	if q.Subdirectory != "" {
		if _, err := m.lexical(q.Subdirectory); err != nil {
			return nil, err
		}
		logrus.Debugf("memory catalog has no directories, ignoring subdirectory %q", q.Subdirectory)
	}
	listing := &Listing{}
	for _, name := range m.names {
		if pattern.Match(name) {
			listing.Resources = append(listing.Resources, m.resources[name])
		}
	}
	sortResources(listing.Resources)
	return listing, nil
}

func (m *Memory) Search(ctx context.Context, term, pattern string) (*SearchResult, error) {
	listing, err := m.Enumerate(ctx, Query{Pattern: pattern})
	if err != nil {
		return nil, err
	}
	return searchResources(ctx, listing.Resources, term, m.opts.concurrency)
}
