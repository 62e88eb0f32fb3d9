package uview

import "github.com/habedi/uview/internal/archive"

// Errors re-exported from the archive extraction layer.
var (
	// ErrNotPackage is returned when the input is not a recognizable
	// .unitypackage stream.
	ErrNotPackage = archive.ErrNotPackage

	// ErrBlobTooLarge is returned when a member blob exceeds the configured
	// per-asset size limit.
	ErrBlobTooLarge = archive.ErrBlobTooLarge

	// ErrPackageTooLarge is returned when the total decoded size exceeds the
	// configured package size limit.
	ErrPackageTooLarge = archive.ErrPackageTooLarge
)
