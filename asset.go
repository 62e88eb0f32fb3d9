package uview

// Asset is one logical file (or folder marker) inside a package.
//
// An Asset is immutable after construction. The byte slices returned by
// Content, Meta, and Preview alias the asset's backing storage and must be
// treated as read-only. Replacing an asset is done by constructing a new one
// and calling [Package.Add]; the catalog never mutates an asset in place.
type Asset struct {
	guid    string
	path    string
	content []byte
	meta    []byte
	preview []byte
}

// NewAsset constructs an asset from its GUID, sanitized path, and optional
// payloads. Any of content, meta, and preview may be nil; a nil content
// payload marks a folder asset.
func NewAsset(guid, path string, content, meta, preview []byte) Asset {
	return Asset{
		guid:    guid,
		path:    path,
		content: content,
		meta:    meta,
		preview: preview,
	}
}

// GUID returns the asset's stable unique identifier within its package.
func (a Asset) GUID() string { return a.guid }

// Path returns the asset's forward-slash-normalized logical path.
func (a Asset) Path() string { return a.path }

// Content returns the raw asset payload, or nil for folder assets.
func (a Asset) Content() []byte { return a.content }

// Meta returns the raw ".meta" sidecar payload, or nil when absent.
func (a Asset) Meta() []byte { return a.meta }

// Preview returns the raw preview image payload, or nil when absent.
func (a Asset) Preview() []byte { return a.preview }

// IsFolder reports whether the asset is a folder marker (no content payload).
func (a Asset) IsFolder() bool { return a.content == nil }
