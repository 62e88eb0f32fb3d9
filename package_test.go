package uview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habedi/uview/internal/archive"
)

func TestPackageAdd(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "Assets/a.txt", []byte("a"), nil, nil))

	require.Equal(t, 1, p.Len())

	byGUID, ok := p.AssetByGUID("g1")
	require.True(t, ok)
	assert.Equal(t, "Assets/a.txt", byGUID.Path())

	byPath, ok := p.AssetByPath("Assets/a.txt")
	require.True(t, ok)
	assert.Equal(t, "g1", byPath.GUID())
}

func TestPackageAddSameGUIDNewPath(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "Assets/old.txt", []byte("v1"), nil, nil))
	p.Add(NewAsset("g1", "Assets/new.txt", []byte("v2"), nil, nil))

	assert.Equal(t, 1, p.Len())

	// The stale path index entry is gone.
	_, ok := p.AssetByPath("Assets/old.txt")
	assert.False(t, ok)

	moved, ok := p.AssetByPath("Assets/new.txt")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), moved.Content())
}

func TestPackageAddPathCollision(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "Assets/a.txt", []byte("first"), nil, nil))
	p.Add(NewAsset("g2", "Assets/a.txt", []byte("second"), nil, nil))

	// Both assets survive in the primary map; the path slot goes to the
	// later writer.
	assert.Equal(t, 2, p.Len())

	got, ok := p.AssetByPath("Assets/a.txt")
	require.True(t, ok)
	assert.Equal(t, "g2", got.GUID())

	first, ok := p.AssetByGUID("g1")
	require.True(t, ok)
	assert.Equal(t, []byte("first"), first.Content())
}

func TestPackageRemoveByPath(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "Assets/a.txt", []byte("a"), nil, nil))

	p.RemoveByPath("Assets/a.txt")
	assert.Zero(t, p.Len())
	_, ok := p.AssetByGUID("g1")
	assert.False(t, ok)

	// Unknown path is a no-op.
	p.RemoveByPath("Assets/missing.txt")
	assert.Zero(t, p.Len())
}

func TestPackageClear(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "Assets/a.txt", []byte("a"), nil, nil))
	p.Add(NewAsset("g2", "Assets/b.txt", []byte("b"), nil, nil))

	p.Clear()
	assert.Zero(t, p.Len())
	_, ok := p.AssetByPath("Assets/a.txt")
	assert.False(t, ok)
}

func TestPackageLoadRaw(t *testing.T) {
	t.Parallel()

	raw := map[string]map[string][]byte{
		"g1": {
			archive.MemberPathname: []byte("Assets/Scripts/Player.cs"),
			archive.MemberAsset:    []byte("class Player {}"),
			archive.MemberMeta:     []byte("guid: g1"),
		},
		"g2": {
			archive.MemberPathname: []byte("Assets/Textures"),
			archive.MemberMeta:     []byte("guid: g2"),
		},
		// No pathname member: dropped without error.
		"g3": {
			archive.MemberAsset: []byte("orphan"),
		},
	}

	p := NewPackage()
	p.LoadRaw(raw)

	assert.Equal(t, 2, p.Len())

	player, ok := p.AssetByPath("Assets/Scripts/Player.cs")
	require.True(t, ok)
	assert.Equal(t, []byte("class Player {}"), player.Content())
	assert.Equal(t, []byte("guid: g1"), player.Meta())
	assert.False(t, player.IsFolder())

	textures, ok := p.AssetByGUID("g2")
	require.True(t, ok)
	assert.True(t, textures.IsFolder())

	_, ok = p.AssetByGUID("g3")
	assert.False(t, ok)
}

func TestPackageLoadRawSanitizesPathname(t *testing.T) {
	t.Parallel()

	raw := map[string]map[string][]byte{
		"g1": {
			archive.MemberPathname: []byte("Assets/File.cs\n00"),
			archive.MemberAsset:    []byte("x"),
		},
	}

	p := NewPackage()
	p.LoadRaw(raw)

	got, ok := p.AssetByPath("Assets/File.cs")
	require.True(t, ok)
	assert.Equal(t, "g1", got.GUID())
}

func TestPackageLoadRawReplacesContents(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("stale", "Assets/stale.txt", []byte("x"), nil, nil))

	p.LoadRaw(map[string]map[string][]byte{
		"g1": {
			archive.MemberPathname: []byte("Assets/fresh.txt"),
			archive.MemberAsset:    []byte("y"),
		},
	})

	assert.Equal(t, 1, p.Len())
	_, ok := p.AssetByGUID("stale")
	assert.False(t, ok)
}

func TestPackageAssetsSorted(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "b/z.txt", []byte("1"), nil, nil))
	p.Add(NewAsset("g2", "a/a.txt", []byte("2"), nil, nil))
	p.Add(NewAsset("g3", "a/b.txt", []byte("3"), nil, nil))

	var paths []string
	for _, a := range p.AssetsSorted() {
		paths = append(paths, a.Path())
	}
	assert.Equal(t, []string{"a/a.txt", "a/b.txt", "b/z.txt"}, paths)
}

func TestPackageAssetsIterator(t *testing.T) {
	t.Parallel()

	p := NewPackage()
	p.Add(NewAsset("g1", "a.txt", []byte("1"), nil, nil))
	p.Add(NewAsset("g2", "b.txt", []byte("2"), nil, nil))

	seen := make(map[string]string)
	for guid, asset := range p.Assets() {
		seen[guid] = asset.Path()
	}
	assert.Equal(t, map[string]string{"g1": "a.txt", "g2": "b.txt"}, seen)
}
