// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/lima-vm/corpus-mcp/pkg/ioutilx"
)

// Disk resolves identifiers against the live filesystem on every call.
// It holds no mutable state.
type Disk struct {
	root string
	opts options
}

var _ Catalog = (*Disk)(nil)

// NewDisk returns a disk catalog rooted at root.
func NewDisk(root string, opts ...Option) (*Disk, error) {
	canonicalRoot, err := CanonicalRoot(root)
	if err != nil {
		return nil, err
	}
	return &Disk{
		root: canonicalRoot,
		opts: newOptions(opts),
	}, nil
}

func (d *Disk) Root() string {
	return d.root
}

func (d *Disk) Backend() string {
	return BackendDisk
}

// canonical canonicalizes identifier and checks it against the root.
// Relative identifiers are joined to the root without cleaning, so that ".."
// is applied after symlinks are resolved.
func (d *Disk) canonical(identifier string) (string, error) {
	candidate := identifier
	if !filepath.IsAbs(candidate) {
		candidate = d.root + string(filepath.Separator) + identifier
	}
	p, err := canonicalize(candidate)
	if err != nil {
		return "", classifyFSError(identifier, err)
	}
	if !within(d.root, p) {
		return "", fmt.Errorf("%w: %q resolves to %q, outside of %q", ErrDenied, identifier, p, d.root)
	}
	return p, nil
}

func (d *Disk) Resolve(ctx context.Context, identifier string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.canonical(identifier)
	if err != nil {
		return nil, err
	}
	return d.resourceAt(p, filepath.Base(p))
}

// resourceAt returns the resource at the canonical path p, named name.
func (d *Disk) resourceAt(p, name string) (*Resource, error) {
	st, err := os.Stat(p)
	if err != nil {
		return nil, classifyFSError(name, err)
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q", ErrNotRegular, name)
	}
	rel := relSlash(d.root, p)
	return &Resource{
		Name:    name,
		Path:    p,
		RelPath: rel,
		Size:    st.Size(),
		load: func(ctx context.Context) ([]byte, error) {
			return d.readFile(ctx, rel)
		},
	}, nil
}

// readFile reads the file at rel, relative to the root.
func (d *Disk) readFile(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := openInRoot(d.root, filepath.FromSlash(rel))
	if err != nil {
		return nil, classifyFSError(rel, err)
	}
	defer f.Close()
	b, err := ioutilx.ReadAtMaximum(f, d.opts.maxFileSize)
	if err != nil {
		if errors.Is(err, ioutilx.ErrLimitExceeded) {
			return nil, fmt.Errorf("%w: %q: %w", ErrTooLarge, rel, err)
		}
		return nil, classifyFSError(rel, err)
	}
	return b, nil
}

// Enumerate lists matching regular files under q.Subdirectory.
// Each match is resolved again, so symlinks leaving the root are dropped.
func (d *Disk) Enumerate(ctx context.Context, q Query) (*Listing, error) {
	pattern, err := compilePattern(q.Pattern)
	if err != nil {
		return nil, err
	}
	dir, err := d.directory(q.Subdirectory)
	if err != nil {
		return nil, err
	}
	listing := &Listing{Dir: relSlash(d.root, dir)}
	add := func(p, name string) {
		if !pattern.Match(name) {
			return
		}
		r, err := d.resolveEntry(p, name)
		if err != nil {
			logrus.WithError(err).Debugf("skipping %q", p)
			return
		}
		listing.Resources = append(listing.Resources, r)
	}
	if q.Recursive {
		err = d.walk(ctx, dir, add)
	} else {
		err = d.readDir(ctx, dir, add)
	}
	if err != nil {
		return nil, err
	}
	sortResources(listing.Resources)
	return listing, nil
}

// directory resolves the subdirectory to enumerate.
func (d *Disk) directory(subdirectory string) (string, error) {
	if subdirectory == "" {
		return d.root, nil
	}
	dir, err := d.canonical(subdirectory)
	if err != nil {
		return "", err
	}
	st, err := os.Stat(dir)
	if err != nil {
		return "", classifyFSError(subdirectory, err)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrNotDirectory, subdirectory)
	}
	return dir, nil
}

func (d *Disk) resolveEntry(p, name string) (*Resource, error) {
	canonical, err := d.canonical(p)
	if err != nil {
		return nil, err
	}
	return d.resourceAt(canonical, name)
}

func (d *Disk) readDir(ctx context.Context, dir string, add func(p, name string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return classifyFSError(relSlash(d.root, dir), err)
	}
	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ent.IsDir() {
			continue
		}
		add(filepath.Join(dir, ent.Name()), ent.Name())
	}
	return nil
}

func (d *Disk) walk(ctx context.Context, dir string, add func(p, name string)) error {
	return filepath.WalkDir(dir, func(p string, ent fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return classifyFSError(relSlash(d.root, dir), err)
			}
			logrus.WithError(err).Debugf("skipping unreadable %q", p)
			if ent != nil && ent.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if ent.IsDir() {
			return nil
		}
		add(p, ent.Name())
		return nil
	})
}

func (d *Disk) Search(ctx context.Context, term, pattern string) (*SearchResult, error) {
	listing, err := d.Enumerate(ctx, Query{Pattern: pattern, Recursive: true})
	if err != nil {
		return nil, err
	}
	return searchResources(ctx, listing.Resources, term, d.opts.concurrency)
}
