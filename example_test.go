package uview_test

import (
	"context"
	"fmt"
	"log"

	"github.com/habedi/uview"
	"github.com/habedi/uview/tree"
)

// Open a package and list its assets in path order.
func Example() {
	pkg, err := uview.Open("testdata/sample.unitypackage")
	if err != nil {
		log.Fatal(err)
	}

	for _, asset := range pkg.AssetsSorted() {
		fmt.Printf("%s (%s)\n", asset.Path(), asset.GUID())
	}
}

// Build a display tree from a loaded catalog.
func Example_tree() {
	pkg := uview.NewPackage()
	pkg.Add(uview.NewAsset("abc123", "Assets/Scripts/Player.cs", []byte("class Player {}"), nil, nil))

	root := tree.Build(pkg.AssetsSorted())
	for node := range root.Walk() {
		fmt.Println(node.Path())
	}
	// Output:
	// Assets/
	// Assets/Scripts/
	// Assets/Scripts/Player.cs
}

// Inspect package metadata without holding payloads in memory, caching the
// manifest for repeat runs.
func ExampleInspect() {
	m, err := uview.Inspect("testdata/sample.unitypackage",
		uview.WithCacheDir("/tmp/uview-cache"),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d assets, %d content bytes\n", m.Len(), m.TotalContentSize())
}

// Extract a package's files to disk with meta sidecars.
func ExamplePackage_ExtractTo() {
	pkg, err := uview.Open("testdata/sample.unitypackage")
	if err != nil {
		log.Fatal(err)
	}

	err = pkg.ExtractTo(context.Background(), "out", uview.ExtractWithMeta(true))
	if err != nil {
		log.Fatal(err)
	}
}
