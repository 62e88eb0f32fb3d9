// Package uview reads .unitypackage archives into an in-memory asset catalog.
//
// A .unitypackage is a gzip-compressed tar stream in which every asset is
// stored under a GUID-named directory containing a small set of well-known
// members ("pathname", "asset", "asset.meta", "preview.png"). This package
// decodes that layout into a [Package]: an authoritative GUID-keyed catalog
// with a secondary path index.
//
// # Quick Start
//
// Open a package and look up an asset:
//
//	pkg, err := uview.Open("props.unitypackage")
//	if err != nil {
//	    return err
//	}
//	asset, ok := pkg.AssetByPath("Assets/Scripts/Player.cs")
//
// Build a display tree for the package contents:
//
//	root := tree.Build(pkg.AssetsSorted())
//
// Extract the package to disk:
//
//	err = pkg.ExtractTo(ctx, "./out", uview.ExtractWithMeta(true))
//
// # Manifests
//
// [Inspect] produces a metadata-only [Manifest] (paths, sizes, content
// digests) without retaining asset payloads. When a cache directory is
// configured via [WithCacheDir], manifests are stored as FlatBuffers-encoded
// sidecars keyed by the package file's digest, so repeated inspections of
// large packages skip decompression entirely.
//
// # Concurrency
//
// Package and Manifest are not safe for concurrent mutation; callers must
// serialize access. ExtractTo is the only operation that spawns goroutines.
package uview
