package uview

import (
	"fmt"
	"io"
	"os"

	"github.com/habedi/uview/internal/archive"
)

// Open reads the .unitypackage at path into a fully loaded catalog.
func Open(path string, opts ...Option) (*Package, error) {
	f, err := os.Open(path) //nolint:gosec // caller-supplied package path
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	defer f.Close()
	return FromReader(f, opts...)
}

// FromReader reads a .unitypackage stream into a fully loaded catalog.
//
// The entire stream is consumed; asset payloads are held in memory. Use
// [Inspect] for a metadata-only view of large packages.
func FromReader(r io.Reader, opts ...Option) (*Package, error) {
	cfg := newConfig(opts)

	raw, err := archive.Extract(r,
		archive.WithMaxBlobSize(cfg.maxAssetSize),
		archive.WithMaxTotalSize(cfg.maxPackageSize),
		archive.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	p := &Package{
		byGUID: make(map[string]Asset, len(raw)),
		byPath: make(map[string]string, len(raw)),
		logger: cfg.logger,
	}
	p.LoadRaw(raw)
	return p, nil
}
