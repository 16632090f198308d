// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
)

// Summary describes the top level of a catalog.
type Summary struct {
	Root      string `json:"root" yaml:"root"`
	Backend   string `json:"backend" yaml:"backend"`
	Resources int    `json:"resources" yaml:"resources"`
	TotalSize int64  `json:"totalSize" yaml:"totalSize"`
	// Fingerprint is only set for the memory backend.
	Fingerprint string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// Summarize counts the regular files directly under the root of cat.
func Summarize(ctx context.Context, cat Catalog) (*Summary, error) {
	s := &Summary{
		Root:    cat.Root(),
		Backend: cat.Backend(),
	}
	if m, ok := cat.(*Memory); ok {
		s.Resources = m.Len()
		s.TotalSize = m.TotalSize()
		s.Fingerprint = m.Fingerprint()
		return s, nil
	}
	listing, err := cat.Enumerate(ctx, Query{Pattern: "*"})
	if err != nil {
		return nil, err
	}
	s.Resources = len(listing.Resources)
	for _, r := range listing.Resources {
		s.TotalSize += r.Size
	}
	return s, nil
}
