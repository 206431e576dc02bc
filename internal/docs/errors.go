package docs

import "errors"

// Sentinel errors for the documentation resource layer. These surface to
// the transport as hard JSON-RPC errors; callers are expected to list
// resources before reading them, so a failing read is exceptional.
var (
	// ErrInvalidName is returned when a requested filename contains path
	// separators or parent-directory segments.
	ErrInvalidName = errors.New("docs: invalid filename")

	// ErrCatalogMissing is returned when the documentation root directory
	// does not exist.
	ErrCatalogMissing = errors.New("docs: documentation directory not found")

	// ErrNotFound is returned when no catalog file matches the requested
	// name, even ignoring case.
	ErrNotFound = errors.New("docs: documentation file not found")

	// ErrAmbiguousName is returned when more than one file matches the
	// requested name ignoring case.
	ErrAmbiguousName = errors.New("docs: ambiguous filename")

	// ErrAccessDenied is returned when the resolved path escapes the
	// documentation root.
	ErrAccessDenied = errors.New("docs: access denied")

	// ErrNotAFile is returned when the resolved path exists but is not a
	// regular file.
	ErrNotAFile = errors.New("docs: not a regular file")

	// ErrUnknownScheme is returned when a resource URI does not use the
	// finlab://docs/ prefix.
	ErrUnknownScheme = errors.New("docs: unknown resource URI scheme")

	// ErrIOFailure is returned when a resolved file cannot be read.
	// Distinct from ErrNotFound: the file exists but reading it failed.
	ErrIOFailure = errors.New("docs: read failure")
)
