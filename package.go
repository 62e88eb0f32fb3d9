package uview

import (
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/habedi/uview/internal/archive"
	"github.com/habedi/uview/internal/pathutil"
)

// Package is the authoritative, queryable store of one package's assets.
//
// Package owns two mappings derived from the same asset set: GUID to Asset
// (primary) and path to GUID (secondary index). Both are private and every
// mutation goes through a single method, so the index can never diverge from
// the primary map. Package is not safe for concurrent mutation.
type Package struct {
	byGUID map[string]Asset
	byPath map[string]string
	logger *slog.Logger
}

// NewPackage returns an empty package catalog.
func NewPackage(opts ...Option) *Package {
	cfg := newConfig(opts)
	return &Package{
		byGUID: make(map[string]Asset),
		byPath: make(map[string]string),
		logger: cfg.logger,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Package) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// LoadRaw replaces the catalog contents with assets decoded from raw per-GUID
// member blobs, as produced by the archive extraction layer.
//
// The input maps each GUID to its named member blobs ("pathname", "asset",
// "asset.meta", "preview.png"). Entries without a pathname member are dropped
// without error; loading is best-effort by design. The pathname blob is
// sanitized before use (see [Package.AssetByPath] for lookup semantics).
func (p *Package) LoadRaw(raw map[string]map[string][]byte) {
	p.Clear()
	for guid, members := range raw {
		pathname, ok := members[archive.MemberPathname]
		if !ok || pathname == nil {
			p.log().Debug("skipping entry without pathname", "guid", guid)
			continue
		}
		p.Add(NewAsset(
			guid,
			pathutil.Sanitize(pathname),
			members[archive.MemberAsset],
			members[archive.MemberMeta],
			members[archive.MemberPreview],
		))
	}
	p.log().Debug("catalog loaded", "assets", len(p.byGUID))
}

// Clear empties the catalog.
func (p *Package) Clear() {
	clear(p.byGUID)
	clear(p.byPath)
}

// Len returns the number of assets in the catalog.
func (p *Package) Len() int {
	return len(p.byGUID)
}

// Assets returns an iterator over all assets keyed by GUID.
//
// Iteration order is not deterministic. The catalog must not be mutated
// while iterating.
func (p *Package) Assets() iter.Seq2[string, Asset] {
	return func(yield func(string, Asset) bool) {
		for guid, asset := range p.byGUID {
			if !yield(guid, asset) {
				return
			}
		}
	}
}

// AssetsSorted returns all assets ordered by path.
//
// Tree building and listings use this to make output deterministic; the
// catalog itself imposes no order.
func (p *Package) AssetsSorted() []Asset {
	assets := make([]Asset, 0, len(p.byGUID))
	for _, asset := range p.byGUID {
		assets = append(assets, asset)
	}
	slices.SortFunc(assets, func(a, b Asset) int {
		return strings.Compare(a.path, b.path)
	})
	return assets
}

// AssetByPath retrieves an asset by its full sanitized path.
//
// The lookup is an exact string match against the secondary index. A missing
// path is not an error; ok is false.
func (p *Package) AssetByPath(path string) (Asset, bool) {
	guid, ok := p.byPath[path]
	if !ok {
		return Asset{}, false
	}
	asset, ok := p.byGUID[guid]
	return asset, ok
}

// AssetByGUID retrieves an asset by its GUID.
func (p *Package) AssetByGUID(guid string) (Asset, bool) {
	asset, ok := p.byGUID[guid]
	return asset, ok
}

// Add upserts an asset by GUID, updating both maps.
//
// When the GUID already exists under a different path, the old path index
// entry is removed so the index never holds a dangling path. When a different
// GUID already occupies the asset's path, the path index entry is overwritten
// and the later writer wins the path slot.
func (p *Package) Add(asset Asset) {
	if prev, ok := p.byGUID[asset.guid]; ok && prev.path != asset.path {
		delete(p.byPath, prev.path)
	}
	p.byGUID[asset.guid] = asset
	p.byPath[asset.path] = asset.guid
}

// RemoveByPath removes the asset stored under path from both maps.
// Unknown paths are a no-op, not an error.
func (p *Package) RemoveByPath(path string) {
	guid, ok := p.byPath[path]
	if !ok {
		return
	}
	delete(p.byPath, path)
	delete(p.byGUID, guid)
}
