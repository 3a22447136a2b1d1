package fieldstore

// Library version. The manifest tags every archive with the encoded
// version so a reader rejects data written by an incompatible release.
const (
	VersionMajor = 2
	VersionMinor = 0
	VersionPatch = 1
)

// versionTag is the single-integer encoding stored in the manifest.
const versionTag = 100*VersionMajor + 10*VersionMinor + VersionPatch

// archiveVersion is the on-disk format version of the binary archive.
const archiveVersion = 0
