package uview

import "log/slog"

// DefaultMaxAssetSize limits the decoded size of a single member blob.
const DefaultMaxAssetSize = 1 << 30 // 1 GiB

// DefaultMaxPackageSize limits the total decoded size of a package.
const DefaultMaxPackageSize = 8 << 30 // 8 GiB

// Option configures package reading and inspection.
type Option func(*config)

type config struct {
	logger         *slog.Logger
	maxAssetSize   uint64
	maxPackageSize uint64
	cacheDir       string
}

func newConfig(opts []Option) config {
	cfg := config{
		maxAssetSize:   DefaultMaxAssetSize,
		maxPackageSize: DefaultMaxPackageSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for diagnostic output.
//
// By default all log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMaxAssetSize limits the decoded size of a single member blob.
// Set limit to 0 to disable the limit.
func WithMaxAssetSize(limit uint64) Option {
	return func(cfg *config) {
		cfg.maxAssetSize = limit
	}
}

// WithMaxPackageSize limits the total decoded size of a package.
// Set limit to 0 to disable the limit.
func WithMaxPackageSize(limit uint64) Option {
	return func(cfg *config) {
		cfg.maxPackageSize = limit
	}
}

// WithCacheDir enables manifest caching rooted at dir.
//
// When set, [Inspect] stores the package manifest as a sidecar keyed by the
// package file's digest and serves repeat inspections from the cache. Cache
// failures are non-fatal; the archive is simply re-read.
func WithCacheDir(dir string) Option {
	return func(cfg *config) {
		cfg.cacheDir = dir
	}
}
