package fieldstore

import "errors"

// Sentinel errors.
var (
	// ErrNoSuchDirectory is returned when opening a missing directory for reading.
	ErrNoSuchDirectory = errors.New("fieldstore: no such directory")

	// ErrDirectoryNotEmpty is returned when opening a non-empty directory for writing.
	ErrDirectoryNotEmpty = errors.New("fieldstore: directory not empty")

	// ErrManifestFormat is returned when the manifest is syntactically or
	// structurally invalid.
	ErrManifestFormat = errors.New("fieldstore: invalid manifest")

	// ErrVersionMismatch is returned when the manifest's version tags do not
	// match the library or archive format version.
	ErrVersionMismatch = errors.New("fieldstore: version mismatch")

	// ErrWrongMode is returned when an operation is not legal in the
	// archive's open mode.
	ErrWrongMode = errors.New("fieldstore: operation not permitted in this mode")

	// ErrUnknownField is returned when reading a field that is not in the archive.
	ErrUnknownField = errors.New("fieldstore: unknown field")

	// ErrInvalidID is returned when a snapshot id is out of range.
	ErrInvalidID = errors.New("fieldstore: invalid snapshot id")

	// ErrChecksumMismatch is returned when disk bytes do not match the
	// checksum recorded at write time.
	ErrChecksumMismatch = errors.New("fieldstore: checksum mismatch")

	// ErrSizeMismatch is returned when overwriting a snapshot with a byte
	// length different from the existing one.
	ErrSizeMismatch = errors.New("fieldstore: snapshot size mismatch")

	// ErrClosed is returned when operating on a closed archive.
	ErrClosed = errors.New("fieldstore: archive is closed")
)
