// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consolidate merges per-source batches into one corpus keyed by
// record id.
package consolidate

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Result is a consolidated batch plus the number of records dropped as
// duplicates.
type Result struct {
	Batch   types.Batch
	Removed int
}

// Consolidate concatenates batches in order and keeps only the first record
// for each id, so no (id, source) pair repeats. types.NotAvailable is an id
// like any other: only the first record carrying it survives. No batches, or
// only empty ones, yield an empty result.
func Consolidate(batches ...types.Batch) Result {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := mapset.NewThreadUnsafeSetWithSize[string](total)
	out := make(types.Batch, 0, total)
	removed := 0
	for _, b := range batches {
		for _, r := range b {
			if !seen.Add(r.ID) {
				removed++
				continue
			}
			out = append(out, r)
		}
	}
	return Result{Batch: out, Removed: removed}
}
