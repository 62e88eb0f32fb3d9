package index

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	sum := sha256.Sum256([]byte("class Player {}"))
	return []Entry{
		{
			GUID:     "def456",
			Path:     "Assets/Textures",
			HasAsset: false,
			HasMeta:  true,
			MetaSize: 24,
		},
		{
			GUID:        "abc123",
			Path:        "Assets/Scripts/Player.cs",
			AssetSize:   15,
			MetaSize:    12,
			PreviewSize: 4,
			Hash:        sum[:],
			HasAsset:    true,
			HasMeta:     true,
			HasPreview:  true,
		},
	}
}

func TestBuildLoadRoundTrip(t *testing.T) {
	t.Parallel()

	entries := testEntries()
	data := Build(entries, 4096, "sha256:deadbeef")

	m, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, uint32(Version), m.Version)
	assert.Equal(t, uint64(4096), m.PackageSize)
	assert.Equal(t, "sha256:deadbeef", m.PackageDigest)

	// Entries come back sorted by path regardless of input order.
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "Assets/Scripts/Player.cs", m.Entries[0].Path)
	assert.Equal(t, "Assets/Textures", m.Entries[1].Path)

	got := m.Entries[0]
	assert.Equal(t, "abc123", got.GUID)
	assert.Equal(t, uint64(15), got.AssetSize)
	assert.Equal(t, uint64(12), got.MetaSize)
	assert.Equal(t, uint64(4), got.PreviewSize)
	assert.True(t, got.HasAsset)
	assert.True(t, got.HasPreview)

	sum := sha256.Sum256([]byte("class Player {}"))
	assert.True(t, bytes.Equal(sum[:], got.Hash))

	folder := m.Entries[1]
	assert.False(t, folder.HasAsset)
	assert.True(t, folder.HasMeta)
	assert.Nil(t, folder.Hash)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := testEntries()
	first := entries[0].Path
	_ = Build(entries, 0, "")
	assert.Equal(t, first, entries[0].Path)
}

func TestBuildEmpty(t *testing.T) {
	t.Parallel()

	m, err := Load(Build(nil, 0, ""))
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestLoadCorrupt(t *testing.T) {
	t.Parallel()

	t.Run("empty data", func(t *testing.T) {
		t.Parallel()
		_, err := Load(nil)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated data", func(t *testing.T) {
		t.Parallel()
		_, err := Load([]byte{0x01, 0x02})
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("root offset out of range", func(t *testing.T) {
		t.Parallel()
		_, err := Load([]byte("garbage"))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("corrupt past root offset", func(t *testing.T) {
		t.Parallel()
		// Valid root offset, garbage vtable offset behind it.
		_, err := Load([]byte{0x04, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x7f})
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated valid blob", func(t *testing.T) {
		t.Parallel()
		data := Build([]Entry{{
			GUID:     "abc123",
			Path:     "Assets/a.txt",
			HasAsset: true,
		}}, 42, "sha256:deadbeef")
		_, err := Load(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}
