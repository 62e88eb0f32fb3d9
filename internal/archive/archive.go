// Package archive extracts raw asset member blobs from .unitypackage streams.
//
// A .unitypackage is a tar stream, usually gzip-compressed, in which each
// asset occupies a GUID-named directory with a small set of well-known member
// files. Extract groups those members per GUID without interpreting them;
// catalog semantics live with the caller.
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Well-known member names inside a GUID directory.
const (
	MemberPathname = "pathname"
	MemberAsset    = "asset"
	MemberMeta     = "asset.meta"
	MemberPreview  = "preview.png"
)

// Sentinel errors.
var (
	// ErrNotPackage is returned when the input is not a recognizable
	// .unitypackage stream.
	ErrNotPackage = errors.New("uview: not a unitypackage")

	// ErrBlobTooLarge is returned when a member blob exceeds the configured
	// per-blob size limit.
	ErrBlobTooLarge = errors.New("uview: member blob too large")

	// ErrPackageTooLarge is returned when the total decoded size exceeds the
	// configured package limit.
	ErrPackageTooLarge = errors.New("uview: package too large")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Option configures extraction.
type Option func(*extractor)

// WithMaxBlobSize limits the decoded size of a single member blob.
// Set limit to 0 to disable the limit.
func WithMaxBlobSize(limit uint64) Option {
	return func(e *extractor) {
		e.maxBlobSize = limit
	}
}

// WithMaxTotalSize limits the total decoded bytes across all member blobs.
// Set limit to 0 to disable the limit.
func WithMaxTotalSize(limit uint64) Option {
	return func(e *extractor) {
		e.maxTotalSize = limit
	}
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *extractor) {
		e.logger = logger
	}
}

type extractor struct {
	maxBlobSize  uint64
	maxTotalSize uint64
	logger       *slog.Logger
}

func (e *extractor) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}

// Extract streams a .unitypackage and returns its raw asset data: a mapping
// from GUID to that asset's named member blobs.
//
// The compression layer is sniffed from magic bytes; gzip, zstd, and
// uncompressed tar streams are accepted. Member files outside the well-known
// set, directory markers, and entries not shaped like "<guid>/<member>" are
// skipped. Size-limit violations abort extraction with an error.
func Extract(r io.Reader, opts ...Option) (map[string]map[string][]byte, error) {
	e := &extractor{}
	for _, opt := range opts {
		opt(e)
	}

	tr, closer, err := openTar(r)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer()
	}

	raw := make(map[string]map[string][]byte)
	var total uint64
	seenEntry := false

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !seenEntry {
				return nil, fmt.Errorf("%w: %s", ErrNotPackage, err)
			}
			return nil, fmt.Errorf("reading package: %w", err)
		}
		seenEntry = true

		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		guid, member, ok := splitMemberName(hdr.Name)
		if !ok {
			e.log().Debug("skipping unrecognized entry", "name", hdr.Name)
			continue
		}
		if !knownMember(member) {
			e.log().Debug("skipping unknown member", "guid", guid, "member", member)
			continue
		}

		if hdr.Size < 0 {
			return nil, fmt.Errorf("%w: negative size for %s", ErrNotPackage, hdr.Name)
		}
		size := uint64(hdr.Size)
		if e.maxBlobSize != 0 && size > e.maxBlobSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrBlobTooLarge, hdr.Name, size)
		}
		total += size
		if e.maxTotalSize != 0 && total > e.maxTotalSize {
			return nil, fmt.Errorf("%w: decoded size exceeds %d bytes", ErrPackageTooLarge, e.maxTotalSize)
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(tr, data); err != nil {
			return nil, fmt.Errorf("reading %s: %w", hdr.Name, err)
		}

		members, ok := raw[guid]
		if !ok {
			members = make(map[string][]byte, 4)
			raw[guid] = members
		}
		members[member] = data
	}

	e.log().Debug("package extracted", "guids", len(raw), "bytes", total)
	return raw, nil
}

// openTar sniffs the compression layer and returns a tar reader over the
// decoded stream. The returned closer, when non-nil, releases decoder state.
func openTar(r io.Reader) (*tar.Reader, func(), error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(4)
	if err != nil && len(head) == 0 {
		return nil, nil, fmt.Errorf("%w: empty input", ErrNotPackage)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotPackage, err)
		}
		return tar.NewReader(gz), func() { gz.Close() }, nil

	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotPackage, err)
		}
		return tar.NewReader(dec), dec.Close, nil

	default:
		return tar.NewReader(br), nil, nil
	}
}

// splitMemberName splits a tar entry name into its GUID directory and member
// file name. Names may carry a leading "./"; members with further nesting are
// rejected.
func splitMemberName(name string) (guid, member string, ok bool) {
	name = strings.TrimPrefix(name, "./")
	guid, member, found := strings.Cut(name, "/")
	if !found || guid == "" || member == "" || strings.Contains(member, "/") {
		return "", "", false
	}
	return guid, member, true
}

func knownMember(member string) bool {
	switch member {
	case MemberPathname, MemberAsset, MemberMeta, MemberPreview:
		return true
	}
	return false
}
