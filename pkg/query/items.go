// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
)

// Item is the outcome of loading one resource of a batch.
// Exactly one of Text and Err is meaningful.
type Item struct {
	Resource *catalog.Resource
	Text     string
	Err      error
}

// LoadItems loads the text of resources with at most limit reads in flight.
// The result has the same order as resources. Failures are recorded per item.
func LoadItems(ctx context.Context, resources []*catalog.Resource, limit int) []Item {
	items := make([]Item, len(resources))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, r := range resources {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					items[i] = Item{Resource: r, Err: fmt.Errorf("panic while reading %q: %v", r.Name, p)}
				}
			}()
			text, err := r.Text(ctx)
			items[i] = Item{Resource: r, Text: text, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return items
}
