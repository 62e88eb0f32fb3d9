package uview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// defaultExtractWorkers bounds concurrent file writes when no
// ExtractWithWorkers option is set.
const defaultExtractWorkers = 4

// ExtractOption configures ExtractTo.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	overwrite bool
	meta      bool
	previews  bool
	workers   int
}

// ExtractWithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.overwrite = overwrite
	}
}

// ExtractWithMeta writes ".meta" sidecar files alongside extracted assets.
func ExtractWithMeta(meta bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.meta = meta
	}
}

// ExtractWithPreviews writes preview images as "<path>.preview.png".
func ExtractWithPreviews(previews bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.previews = previews
	}
}

// ExtractWithWorkers sets the number of concurrent file writers.
// Values <= 0 use the default (4).
func ExtractWithWorkers(n int) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.workers = n
	}
}

// ExtractTo writes the catalog's assets to destDir at their sanitized paths.
//
// Folder assets become directories; file assets are written atomically via
// temp files and renames. Parent directories are created as needed. Assets
// whose paths would escape destDir are rejected with an error before any
// file is written.
func (p *Package) ExtractTo(ctx context.Context, destDir string, opts ...ExtractOption) error {
	cfg := extractConfig{workers: defaultExtractWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = defaultExtractWorkers
	}

	assets := p.AssetsSorted()
	for _, asset := range assets {
		if !filepath.IsLocal(filepath.FromSlash(asset.Path())) {
			return &fs.PathError{Op: "extract", Path: asset.Path(), Err: fs.ErrInvalid}
		}
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	// Folder assets and their sidecars are handled serially before any writer
	// goroutine starts, so concurrent file writes never race against parent
	// creation and every exit after dispatch goes through g.Wait.
	for _, asset := range assets {
		if !asset.IsFolder() {
			continue
		}
		dir := filepath.Join(destDir, filepath.FromSlash(asset.Path()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", asset.Path(), err)
		}
		if cfg.meta && asset.Meta() != nil {
			if err := p.writeBlob(dir+".meta", asset.Meta(), &cfg); err != nil {
				return err
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for _, asset := range assets {
		if asset.IsFolder() {
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dest := filepath.Join(destDir, filepath.FromSlash(asset.Path()))
			if err := p.writeBlob(dest, asset.Content(), &cfg); err != nil {
				return err
			}
			if cfg.meta && asset.Meta() != nil {
				if err := p.writeBlob(dest+".meta", asset.Meta(), &cfg); err != nil {
					return err
				}
			}
			if cfg.previews && asset.Preview() != nil {
				if err := p.writeBlob(dest+".preview.png", asset.Preview(), &cfg); err != nil {
					return err
				}
			}
			p.log().Debug("extracted", "path", asset.Path())
			return nil
		})
	}

	return g.Wait()
}

// writeBlob writes content to destPath atomically using a temp file.
// Existing files are skipped unless overwrite is enabled.
func (p *Package) writeBlob(destPath string, content []byte, cfg *extractConfig) error {
	if !cfg.overwrite {
		if _, err := os.Stat(destPath); err == nil {
			p.log().Debug("skipping existing file", "path", destPath)
			return nil
		}
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".uview-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// On Windows, os.Rename fails if the destination exists. Remove it first
	// when overwrite is enabled; refuse to replace a directory with a file.
	if cfg.overwrite {
		if info, err := os.Stat(destPath); err == nil && info.IsDir() {
			return &fs.PathError{Op: "extract", Path: destPath, Err: errors.New("is a directory")}
		}
		_ = os.Remove(destPath) // ignore error; rename will fail if removal was needed but failed
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming to destination: %w", err)
	}

	success = true
	return nil
}
