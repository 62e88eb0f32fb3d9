package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habedi/uview"
)

func asset(guid, path string) uview.Asset {
	return uview.NewAsset(guid, path, []byte("content"), nil, nil)
}

func folder(guid, path string) uview.Asset {
	return uview.NewAsset(guid, path, nil, nil, nil)
}

// childPaths returns the stored paths of a node's direct children.
func childPaths(n *Node) []string {
	paths := make([]string, 0, n.Len())
	for _, child := range n.Children() {
		paths = append(paths, child.Path())
	}
	return paths
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	for _, assets := range [][]uview.Asset{nil, {}} {
		root := Build(assets)
		require.NotNil(t, root)
		assert.True(t, root.IsRoot())
		assert.Equal(t, KindDirectory, root.Kind())
		assert.Zero(t, root.Len())
	}
}

func TestBuildSingleAssetChain(t *testing.T) {
	t.Parallel()

	a := asset("abc123", "Assets/Scripts/Player.cs")
	root := Build([]uview.Asset{a})

	require.Equal(t, 1, root.Len())
	assets := root.Children()[0]
	assert.Equal(t, KindDirectory, assets.Kind())
	assert.Equal(t, "Assets/", assets.Path())
	assert.Equal(t, "Assets", assets.Name())
	assert.Same(t, root, assets.Parent())

	require.Equal(t, 1, assets.Len())
	scripts := assets.Children()[0]
	assert.Equal(t, KindDirectory, scripts.Kind())
	assert.Equal(t, "Assets/Scripts/", scripts.Path())

	require.Equal(t, 1, scripts.Len())
	leaf := scripts.Children()[0]
	assert.Equal(t, KindAsset, leaf.Kind())
	assert.Equal(t, "Assets/Scripts/Player.cs", leaf.Path())
	assert.Equal(t, "Player.cs", leaf.Name())

	got, ok := leaf.Asset()
	require.True(t, ok)
	assert.Equal(t, a.GUID(), got.GUID())

	_, ok = scripts.Asset()
	assert.False(t, ok)
}

func TestBuildSharedParents(t *testing.T) {
	t.Parallel()

	root := Build([]uview.Asset{
		asset("g1", "Assets/Scripts/Player.cs"),
		asset("g2", "Assets/Scripts/Enemy.cs"),
		asset("g3", "Assets/Readme.md"),
	})

	require.Equal(t, 1, root.Len())
	assets := root.Children()[0]
	// Children appear in asset-processing order, not sorted.
	assert.Equal(t, []string{"Assets/Scripts/", "Assets/Readme.md"}, childPaths(assets))

	scripts := assets.Children()[0]
	assert.Equal(t, []string{"Assets/Scripts/Player.cs", "Assets/Scripts/Enemy.cs"}, childPaths(scripts))
}

func TestBuildFolderAsset(t *testing.T) {
	t.Parallel()

	// A folder asset whose path arrives before any children: the asset claims
	// the node slot and the children hang off it.
	root := Build([]uview.Asset{
		folder("gdir", "Assets/Textures"),
		asset("gfile", "Assets/Textures/rock.png"),
	})

	assets := root.Children()[0]
	require.Equal(t, 1, assets.Len())

	textures := assets.Children()[0]
	assert.Equal(t, KindAsset, textures.Kind())
	assert.Equal(t, "Assets/Textures", textures.Path())

	require.Equal(t, 1, textures.Len())
	assert.Equal(t, "Assets/Textures/rock.png", textures.Children()[0].Path())
}

// A synthetic directory created for one asset's ancestor chain occupies the
// path slot of a later folder asset with the same path: first writer wins and
// the folder asset gets no node of its own. The catalog still holds it.
func TestBuildDirectoryShadowsLaterAsset(t *testing.T) {
	t.Parallel()

	root := Build([]uview.Asset{
		asset("gfile", "Assets/Textures/rock.png"),
		folder("gdir", "Assets/Textures"),
	})

	assets := root.Children()[0]
	require.Equal(t, 1, assets.Len())

	textures := assets.Children()[0]
	assert.Equal(t, KindDirectory, textures.Kind())
	assert.Equal(t, "Assets/Textures/", textures.Path())

	_, ok := textures.Asset()
	assert.False(t, ok)
}

func TestBuildNormalizesPaths(t *testing.T) {
	t.Parallel()

	root := Build([]uview.Asset{
		asset("g1", `Assets\Materials\wood.mat`),
		folder("g2", "Assets/Prefabs/"),
	})

	assets := root.Children()[0]
	assert.Equal(t, []string{"Assets/Materials/", "Assets/Prefabs"}, childPaths(assets))

	wood := assets.Children()[0].Children()[0]
	assert.Equal(t, KindAsset, wood.Kind())
	assert.Equal(t, "Assets/Materials/wood.mat", wood.Path())
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := Build([]uview.Asset{
		asset("g1", "Assets/Scripts/Player.cs"),
		asset("g2", "Docs/notes.txt"),
	})

	var paths []string
	for n := range root.Walk() {
		paths = append(paths, n.Path())
	}
	assert.Equal(t, []string{
		"Assets/",
		"Assets/Scripts/",
		"Assets/Scripts/Player.cs",
		"Docs/",
		"Docs/notes.txt",
	}, paths)
}

func TestWalkEarlyStop(t *testing.T) {
	t.Parallel()

	root := Build([]uview.Asset{
		asset("g1", "Assets/a.txt"),
		asset("g2", "Assets/b.txt"),
		asset("g3", "Assets/c.txt"),
	})

	count := 0
	for range root.Walk() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

var sinkNode *Node

func BenchmarkBuild(b *testing.B) {
	assets := make([]uview.Asset, 0, 4096)
	for dir := range 64 {
		for file := range 64 {
			path := fmt.Sprintf("Assets/Dir%02d/file%02d.txt", dir, file)
			assets = append(assets, asset(fmt.Sprintf("g%d-%d", dir, file), path))
		}
	}
	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		sinkNode = Build(assets)
	}
}
