//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract fetches every enabled source and writes raw and combined files.
func Extract() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "extract")
}

// Transform cleans the raw batches into data/processed/articles.parquet.
func Transform() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "transform")
}

// Index loads the processed corpus into the SQLite catalog.
func Index() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "catalog", "index")
}

// Pipeline runs extract, transform and index in order.
func Pipeline() {
	mg.SerialDeps(Extract, Transform, Index)
}
