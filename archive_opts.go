package fieldstore

import (
	"log/slog"
	"os"
)

// Option configures an Archive at open time.
type Option func(*Archive)

// WithLogger sets a logger for debug events. The default discards logs.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithDirPerm sets the permissions used when the archive directory is created.
func WithDirPerm(mode os.FileMode) Option {
	return func(a *Archive) {
		a.dirPerm = mode
	}
}

// WithFilePerm sets the permissions used for data files and the manifest.
func WithFilePerm(mode os.FileMode) Option {
	return func(a *Archive) {
		a.filePerm = mode
	}
}
