package fieldstore

import "github.com/opencontainers/go-digest"

// checksumBytes returns the lowercase-hex SHA-256 digest of b, the form
// stored in the manifest.
func checksumBytes(b []byte) string {
	return digest.FromBytes(b).Encoded()
}
