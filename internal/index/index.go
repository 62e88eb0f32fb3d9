// Package index encodes and decodes FlatBuffers-encoded package manifests.
//
// A manifest records per-asset metadata (GUID, sanitized path, member sizes,
// content hash) without any payloads, plus identity information for the
// package file it was built from. Entries are stored sorted by path.
//
// Unlike payload data, manifests are small, so Load materializes all entries
// eagerly instead of handing out lazy views over the buffer.
package index

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/habedi/uview/internal/fb"
)

// Version is the manifest format version written by Build.
const Version = 1

// ErrCorrupt is returned when manifest data cannot be decoded.
var ErrCorrupt = errors.New("uview: corrupt manifest")

// Entry is the decoded metadata for one asset.
type Entry struct {
	GUID        string
	Path        string
	AssetSize   uint64
	MetaSize    uint64
	PreviewSize uint64
	Hash        []byte // SHA-256 of the asset payload; nil without one
	HasAsset    bool
	HasMeta     bool
	HasPreview  bool
}

// Manifest is a decoded manifest blob.
type Manifest struct {
	Version       uint32
	Entries       []Entry // sorted by path
	PackageSize   uint64
	PackageDigest string
}

// Build serializes entries to a FlatBuffers manifest blob.
//
// Entries are sorted by path before encoding; the input slice is not
// modified. packageSize and packageDigest identify the package file the
// manifest was derived from.
func Build(entries []Entry, packageSize uint64, packageDigest string) []byte {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	builder := flatbuffers.NewBuilder(1024)

	// Build entries in reverse order (FlatBuffers requirement)
	entryOffsets := make([]flatbuffers.UOffsetT, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]

		guidOffset := builder.CreateString(e.GUID)
		pathOffset := builder.CreateString(e.Path)

		var hashOffset flatbuffers.UOffsetT
		if len(e.Hash) > 0 {
			fb.EntryStartHashVector(builder, len(e.Hash))
			for j := len(e.Hash) - 1; j >= 0; j-- {
				builder.PrependByte(e.Hash[j])
			}
			hashOffset = builder.EndVector(len(e.Hash))
		}

		fb.EntryStart(builder)
		fb.EntryAddGuid(builder, guidOffset)
		fb.EntryAddPath(builder, pathOffset)
		fb.EntryAddAssetSize(builder, e.AssetSize)
		fb.EntryAddMetaSize(builder, e.MetaSize)
		fb.EntryAddPreviewSize(builder, e.PreviewSize)
		if hashOffset != 0 {
			fb.EntryAddHash(builder, hashOffset)
		}
		fb.EntryAddHasAsset(builder, e.HasAsset)
		fb.EntryAddHasMeta(builder, e.HasMeta)
		fb.EntryAddHasPreview(builder, e.HasPreview)
		entryOffsets[i] = fb.EntryEnd(builder)
	}

	fb.ManifestStartEntriesVector(builder, len(sorted))
	for i := len(entryOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(entryOffsets[i])
	}
	entriesOffset := builder.EndVector(len(sorted))

	digestOffset := builder.CreateString(packageDigest)

	fb.ManifestStart(builder)
	fb.ManifestAddVersion(builder, Version)
	fb.ManifestAddHashAlgorithm(builder, fb.HashAlgorithmSHA256)
	fb.ManifestAddEntries(builder, entriesOffset)
	fb.ManifestAddPackageSize(builder, packageSize)
	fb.ManifestAddPackageDigest(builder, digestOffset)
	manifestOffset := fb.ManifestEnd(builder)

	builder.Finish(manifestOffset)
	return builder.FinishedBytes()
}

// Load decodes a manifest blob.
//
// Accessors read the buffer unchecked, so damage past the root offset
// surfaces as a panic; Load converts those to ErrCorrupt.
func Load(data []byte) (m *Manifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("%w: truncated data", ErrCorrupt)
	}
	if off := flatbuffers.GetUOffsetT(data); int(off)+flatbuffers.SizeSOffsetT > len(data) {
		return nil, fmt.Errorf("%w: root offset out of range", ErrCorrupt)
	}

	root := fb.GetRootAsManifest(data, 0)
	if root == nil {
		return nil, ErrCorrupt
	}
	if v := root.Version(); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	if alg := root.HashAlgorithm(); alg != fb.HashAlgorithmSHA256 {
		return nil, fmt.Errorf("%w: unsupported hash algorithm %s", ErrCorrupt, alg)
	}

	m = &Manifest{
		Version:       root.Version(),
		Entries:       make([]Entry, 0, root.EntriesLength()),
		PackageSize:   root.PackageSize(),
		PackageDigest: string(root.PackageDigest()),
	}

	var fbEntry fb.Entry
	for i := range root.EntriesLength() {
		if !root.Entries(&fbEntry, i) {
			return nil, fmt.Errorf("%w: truncated entry vector", ErrCorrupt)
		}
		// Copy hash bytes since FlatBuffers data is shared.
		var hash []byte
		if n := fbEntry.HashLength(); n > 0 {
			hash = slices.Clone(fbEntry.HashBytes())
		}
		m.Entries = append(m.Entries, Entry{
			GUID:        string(fbEntry.Guid()),
			Path:        string(fbEntry.Path()),
			AssetSize:   fbEntry.AssetSize(),
			MetaSize:    fbEntry.MetaSize(),
			PreviewSize: fbEntry.PreviewSize(),
			Hash:        hash,
			HasAsset:    fbEntry.HasAsset(),
			HasMeta:     fbEntry.HasMeta(),
			HasPreview:  fbEntry.HasPreview(),
		})
	}

	return m, nil
}
