// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"
)

// Hit is a matching line.
type Hit struct {
	// Line is 1-based.
	Line int
	// Text is the line without its trailing whitespace.
	Text string
}

// SearchResult is the result of [Catalog.Search].
type SearchResult struct {
	// Files maps the resource RelPath to its hits, in ascending RelPath order.
	// Resources without hits are absent.
	Files *orderedmap.OrderedMap[string, []Hit]
	// Matched is the number of distinct resources whose name matched the pattern.
	Matched int
	// Scanned is the number of those that were read successfully.
	Scanned int
}

// searchResources scans resources concurrently. A file reached through several
// links is scanned once. Resources that cannot be read or decoded are skipped.
func searchResources(ctx context.Context, resources []*Resource, term string, limit int) (*SearchResult, error) {
	sorted := make([]*Resource, 0, len(resources))
	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if _, ok := seen[r.key()]; ok {
			continue
		}
		seen[r.key()] = struct{}{}
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].key() < sorted[j].key()
	})

	needle := strings.ToLower(term)
	hits := make([][]Hit, len(sorted))
	scanned := make([]bool, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, r := range sorted {
		g.Go(func() error {
			text, err := r.Text(gctx)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logrus.WithError(err).Debugf("skipping %q while searching", r.key())
				return nil
			}
			scanned[i] = true
			hits[i] = findHits(text, needle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &SearchResult{
		Files:   orderedmap.New[string, []Hit](),
		Matched: len(sorted),
	}
	for i, r := range sorted {
		if scanned[i] {
			res.Scanned++
		}
		if len(hits[i]) > 0 {
			res.Files.Set(r.key(), hits[i])
		}
	}
	return res, nil
}

// findHits returns the lines of text containing needle, which must be lower case.
func findHits(text, needle string) []Hit {
	var hits []Hit
	for n := 1; text != ""; n++ {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}
		if strings.Contains(strings.ToLower(line), needle) {
			hits = append(hits, Hit{Line: n, Text: strings.TrimRightFunc(line, unicode.IsSpace)})
		}
	}
	return hits
}
