package uview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/habedi/uview/cache/disk"
	"github.com/habedi/uview/internal/index"
)

// ErrCorruptManifest is returned when a manifest blob cannot be decoded.
var ErrCorruptManifest = index.ErrCorrupt

// IndexEntry is the metadata recorded in a manifest for one asset.
type IndexEntry struct {
	GUID        string
	Path        string
	ContentSize uint64
	MetaSize    uint64
	PreviewSize uint64

	// Digest is the SHA-256 digest of the asset payload; empty for folder
	// assets without one.
	Digest digest.Digest

	HasContent bool
	HasMeta    bool
	HasPreview bool
}

// Manifest is a metadata-only view of a package: per-asset paths, sizes, and
// content digests, without any payloads. It is enough to render listings and
// display trees for packages too large to hold in memory.
type Manifest struct {
	entries   []IndexEntry // sorted by path
	pkgSize   uint64
	pkgDigest digest.Digest

	// Lazy computed stats
	statsOnce        sync.Once
	totalContentSize uint64
}

// Len returns the number of assets in the manifest.
func (m *Manifest) Len() int { return len(m.entries) }

// Entries returns an iterator over all entries in path order.
func (m *Manifest) Entries() iter.Seq[IndexEntry] {
	return func(yield func(IndexEntry) bool) {
		for _, e := range m.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Lookup returns the entry for an exact path.
func (m *Manifest) Lookup(path string) (IndexEntry, bool) {
	i, ok := binarySearch(m.entries, path)
	if !ok {
		return IndexEntry{}, false
	}
	return m.entries[i], true
}

// PackageDigest returns the digest of the package file the manifest was
// built from.
func (m *Manifest) PackageDigest() digest.Digest { return m.pkgDigest }

// PackageSize returns the size in bytes of the (compressed) package file.
func (m *Manifest) PackageSize() uint64 { return m.pkgSize }

// TotalContentSize returns the sum of all decoded asset payload sizes.
// This requires iterating all entries on first call; the result is cached.
func (m *Manifest) TotalContentSize() uint64 {
	m.statsOnce.Do(func() {
		for _, e := range m.entries {
			m.totalContentSize += e.ContentSize
		}
	})
	return m.totalContentSize
}

// Assets returns payload-free assets for every entry, in path order.
// This is the bridge to tree building when only a manifest is available.
func (m *Manifest) Assets() []Asset {
	assets := make([]Asset, len(m.entries))
	for i, e := range m.entries {
		assets[i] = NewAsset(e.GUID, e.Path, nil, nil, nil)
	}
	return assets
}

func binarySearch(entries []IndexEntry, path string) (int, bool) {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if strings.Compare(entries[mid].Path, path) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(entries) && entries[lo].Path == path
}

// Manifest derives a metadata-only manifest from a loaded catalog.
//
// The package file's size and digest are unknown to an in-memory catalog and
// are left zero; manifests produced by [Inspect] carry them.
func (p *Package) Manifest() *Manifest {
	assets := p.AssetsSorted()
	entries := make([]IndexEntry, len(assets))
	for i, a := range assets {
		entries[i] = manifestEntry(a)
	}
	return &Manifest{entries: entries}
}

func manifestEntry(a Asset) IndexEntry {
	e := IndexEntry{
		GUID:        a.GUID(),
		Path:        a.Path(),
		ContentSize: uint64(len(a.Content())),
		MetaSize:    uint64(len(a.Meta())),
		PreviewSize: uint64(len(a.Preview())),
		HasContent:  a.Content() != nil,
		HasMeta:     a.Meta() != nil,
		HasPreview:  a.Preview() != nil,
	}
	if e.HasContent {
		e.Digest = digest.FromBytes(a.Content())
	}
	return e
}

// Inspect reads package metadata without retaining asset payloads.
//
// When a cache directory is configured via [WithCacheDir], the manifest is
// stored as a sidecar keyed by the package file's digest and repeat
// inspections decode the sidecar instead of decompressing the archive.
// Cache read and write failures are non-fatal: the archive is re-read and
// the error is logged.
func Inspect(path string, opts ...Option) (*Manifest, error) {
	cfg := newConfig(opts)
	log := cfg.log()

	f, err := os.Open(path) //nolint:gosec // caller-supplied package path
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("statting package: %w", err)
	}

	dgst, err := digest.FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("digesting package: %w", err)
	}

	var cache *disk.Cache
	if cfg.cacheDir != "" {
		cache, err = disk.New(cfg.cacheDir)
		if err != nil {
			log.Warn("manifest cache unavailable", "dir", cfg.cacheDir, "error", err)
			cache = nil
		}
	}

	if cache != nil {
		if data, ok := cache.Get(dgst); ok {
			m, err := manifestFromBlob(data)
			if err == nil {
				log.Debug("manifest cache hit", "package", path, "digest", dgst)
				return m, nil
			}
			log.Warn("discarding corrupt cached manifest", "digest", dgst, "error", err)
			_ = cache.Delete(dgst) //nolint:errcheck // best-effort cleanup
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding package: %w", err)
	}

	pkg, err := FromReader(f, opts...)
	if err != nil {
		return nil, err
	}

	m := pkg.Manifest()
	m.pkgSize = uint64(info.Size())
	m.pkgDigest = dgst

	if cache != nil {
		if err := cache.Put(dgst, manifestToBlob(m)); err != nil {
			log.Warn("storing manifest sidecar failed", "digest", dgst, "error", err)
		}
	}
	return m, nil
}

func manifestToBlob(m *Manifest) []byte {
	entries := make([]index.Entry, len(m.entries))
	for i, e := range m.entries {
		var hash []byte
		if e.Digest != "" {
			if sum, err := decodeDigest(e.Digest); err == nil {
				hash = sum
			}
		}
		entries[i] = index.Entry{
			GUID:        e.GUID,
			Path:        e.Path,
			AssetSize:   e.ContentSize,
			MetaSize:    e.MetaSize,
			PreviewSize: e.PreviewSize,
			Hash:        hash,
			HasAsset:    e.HasContent,
			HasMeta:     e.HasMeta,
			HasPreview:  e.HasPreview,
		}
	}
	return index.Build(entries, m.pkgSize, m.pkgDigest.String())
}

func manifestFromBlob(data []byte) (*Manifest, error) {
	decoded, err := index.Load(data)
	if err != nil {
		return nil, err
	}

	pkgDigest, err := digest.Parse(decoded.PackageDigest)
	if err != nil {
		return nil, fmt.Errorf("%w: bad package digest: %s", ErrCorruptManifest, err)
	}

	m := &Manifest{
		entries:   make([]IndexEntry, len(decoded.Entries)),
		pkgSize:   decoded.PackageSize,
		pkgDigest: pkgDigest,
	}
	for i, e := range decoded.Entries {
		entry := IndexEntry{
			GUID:        e.GUID,
			Path:        e.Path,
			ContentSize: e.AssetSize,
			MetaSize:    e.MetaSize,
			PreviewSize: e.PreviewSize,
			HasContent:  e.HasAsset,
			HasMeta:     e.HasMeta,
			HasPreview:  e.HasPreview,
		}
		if len(e.Hash) == sha256.Size {
			entry.Digest = digest.NewDigestFromBytes(digest.SHA256, e.Hash)
		}
		m.entries[i] = entry
	}
	return m, nil
}

// decodeDigest converts a digest to its raw hash bytes.
func decodeDigest(d digest.Digest) ([]byte, error) {
	return hex.DecodeString(d.Encoded())
}

// log returns the configured logger, falling back to a discard logger.
func (cfg *config) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}
