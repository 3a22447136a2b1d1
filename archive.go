package fieldstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meigma/fieldstore/internal/fieldtable"
)

// dataFileSuffix is appended to a field name to form its data file name.
const dataFileSuffix = ".dat"

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// Archive is the open/read/write/append engine for one archive directory.
//
// An Archive is owned by a single actor: it is not safe for concurrent
// use, and exactly one writer may own a directory at a time. File handles
// are scoped to individual operations; nothing is held open between calls.
type Archive struct {
	mode          OpenMode
	dir           string
	table         *fieldtable.Table
	manifestDirty bool
	closed        bool
	dirPerm       os.FileMode
	filePerm      os.FileMode
	logger        *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// Open establishes an archive session on directory.
//
// ModeRead requires the directory and its manifest to exist. ModeWrite
// requires the directory to be absent or empty and starts a fresh field
// table. ModeAppend creates the directory if absent and loads the
// manifest if one is present. Both ModeWrite and ModeAppend create the
// directory when it is missing.
func Open(directory string, mode OpenMode, opts ...Option) (*Archive, error) {
	a := &Archive{
		mode:     mode,
		dir:      directory,
		table:    fieldtable.New(),
		dirPerm:  defaultDirPerm,
		filePerm: defaultFilePerm,
	}
	for _, opt := range opts {
		opt(a)
	}

	info, err := os.Stat(directory)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat archive directory: %w", err)
	}
	isDir := err == nil && info.IsDir()

	switch mode {
	case ModeRead:
		if !isDir {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchDirectory, directory)
		}
	case ModeWrite:
		if isDir {
			empty, err := dirIsEmpty(directory)
			if err != nil {
				return nil, fmt.Errorf("inspect archive directory: %w", err)
			}
			if !empty {
				return nil, fmt.Errorf("%w: %s", ErrDirectoryNotEmpty, directory)
			}
		}
		fallthrough
	case ModeAppend:
		if !isDir {
			if err := os.MkdirAll(directory, a.dirPerm); err != nil {
				return nil, fmt.Errorf("create archive directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("fieldstore: unknown open mode %d", mode)
	}

	if err := a.loadManifest(); err != nil {
		return nil, err
	}

	a.log().Debug("archive opened", "directory", directory, "mode", mode.String(), "fields", a.table.Len())
	return a, nil
}

// loadManifest populates the field table from the on-disk manifest.
// ModeWrite skips the load: the session owns a fresh archive.
func (a *Archive) loadManifest() error {
	if a.mode == ModeWrite {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(a.dir, ManifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		if a.mode == ModeAppend {
			return nil
		}
		return fmt.Errorf("fieldstore: archive metadata not found in %s: %w", a.dir, err)
	}
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	table, err := decodeManifest(data)
	if err != nil {
		return err
	}
	a.table = table
	return nil
}

// Write stores one snapshot of the field identified by id.
//
// The view's elements are packed into a contiguous buffer, checksummed,
// and written to the field's data file. An unknown field creates a fresh
// data file; id equal to the field's snapshot count appends; a smaller id
// overwrites that snapshot in place, which requires the byte length to
// match the existing run (ErrSizeMismatch otherwise). The field table is
// only updated after the bytes hit the disk, and the manifest is flushed
// before Write returns so a subsequent reader observes the new snapshot.
func (a *Archive) Write(view StorageView, id FieldID) error {
	if a.closed {
		return ErrClosed
	}
	if a.mode != ModeWrite && a.mode != ModeAppend {
		return fmt.Errorf("%w: write requires Write or Append mode, archive is open in %s mode", ErrWrongMode, a.mode)
	}
	if err := validateFieldName(id.Name); err != nil {
		return err
	}
	if id.ID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id.ID)
	}

	buf, err := packView(view)
	if err != nil {
		return err
	}
	checksum := checksumBytes(buf)
	path := a.dataFilePath(id.Name)

	ot, known := a.table.Lookup(id.Name)
	var offset uint64
	switch {
	case !known:
		if err := writeNewFile(path, buf, a.filePerm); err != nil {
			return err
		}
		a.table.Append(id.Name, fieldtable.FileOffset{Offset: 0, Checksum: checksum})

	case id.ID == len(ot):
		offset, err = appendToFile(path, buf, a.filePerm)
		if err != nil {
			return err
		}
		a.table.Append(id.Name, fieldtable.FileOffset{Offset: offset, Checksum: checksum})

	case id.ID < len(ot):
		offset = ot[id.ID].Offset
		existing, err := runLength(path, ot, id.ID)
		if err != nil {
			return err
		}
		if existing != uint64(len(buf)) {
			return fmt.Errorf("%w: snapshot %d of field %q holds %d bytes, got %d",
				ErrSizeMismatch, id.ID, id.Name, existing, len(buf))
		}
		if err := overwriteAt(path, buf, offset); err != nil {
			return err
		}
		a.table.Replace(id.Name, id.ID, fieldtable.FileOffset{Offset: offset, Checksum: checksum})

	default:
		return fmt.Errorf("%w: id %d of field %q, next id is %d", ErrInvalidID, id.ID, id.Name, len(ot))
	}

	a.log().Debug("snapshot written", "field", id.Name, "id", id.ID, "offset", offset, "bytes", len(buf))

	a.manifestDirty = true
	return a.flushManifest()
}

// Read loads the snapshot identified by id into the view.
//
// The byte-run is read from the field's data file, verified against the
// recorded checksum, and unpacked into the view's elements.
func (a *Archive) Read(view StorageView, id FieldID) error {
	if a.closed {
		return ErrClosed
	}
	if a.mode != ModeRead {
		return fmt.Errorf("%w: read requires Read mode, archive is open in %s mode", ErrWrongMode, a.mode)
	}

	ot, ok := a.table.Lookup(id.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id.Name)
	}
	if id.ID < 0 || id.ID >= len(ot) {
		return fmt.Errorf("%w: id %d of field %q, have %d snapshots", ErrInvalidID, id.ID, id.Name, len(ot))
	}

	buf := make([]byte, view.SizeInBytes())

	f, err := os.Open(a.dataFilePath(id.Name))
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	if n, err := f.ReadAt(buf, int64(ot[id.ID].Offset)); err != nil && n < len(buf) {
		return fmt.Errorf("read data file: %w", err)
	}

	if sum := checksumBytes(buf); sum != ot[id.ID].Checksum {
		return fmt.Errorf("%w: field %q id %d", ErrChecksumMismatch, id.Name, id.ID)
	}

	a.log().Debug("snapshot read", "field", id.Name, "id", id.ID, "bytes", len(buf))
	return unpackView(view, buf)
}

// Close flushes the manifest if dirty and ends the session. Operations on
// a closed archive fail with ErrClosed. Close is idempotent.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	err := a.flushManifest()
	a.closed = true
	return err
}

// flushManifest rewrites the whole manifest via truncate-and-write. The
// in-memory table is authoritative: the archive assumes a single writer
// per directory.
func (a *Archive) flushManifest() error {
	if !a.manifestDirty {
		return nil
	}
	data, err := encodeManifest(a.table)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.dir, ManifestFileName), data, a.filePerm); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	a.manifestDirty = false
	a.log().Debug("manifest flushed", "directory", a.dir, "fields", a.table.Len())
	return nil
}

// Directory returns the archive directory.
func (a *Archive) Directory() string {
	return a.dir
}

// Mode returns the mode the archive was opened with.
func (a *Archive) Mode() OpenMode {
	return a.mode
}

// Fields returns the archived field names in sorted order.
func (a *Archive) Fields() []string {
	return a.table.Names()
}

// Snapshots returns the number of snapshots of the named field.
func (a *Archive) Snapshots(name string) (int, bool) {
	ot, ok := a.table.Lookup(name)
	return len(ot), ok
}

// String renders a human-readable dump of the archive state.
func (a *Archive) String() string {
	var b strings.Builder
	b.WriteString("FieldArchive [\n")
	fmt.Fprintf(&b, "  directory = %s\n", a.dir)
	fmt.Fprintf(&b, "  mode = %s\n", a.mode)
	b.WriteString("  fieldsTable = [\n")
	for _, name := range a.table.Names() {
		ot, _ := a.table.Lookup(name)
		fmt.Fprintf(&b, "    %s = {\n", name)
		for _, fo := range ot {
			fmt.Fprintf(&b, "      [ %d, %s ]\n", fo.Offset, fo.Checksum)
		}
		b.WriteString("    }\n")
	}
	b.WriteString("  ]\n")
	b.WriteString("]\n")
	return b.String()
}

// dataFilePath returns the path of the named field's data file.
func (a *Archive) dataFilePath(name string) string {
	return filepath.Join(a.dir, name+dataFileSuffix)
}

// validateFieldName rejects names that would escape the archive directory
// or collide with the manifest.
func validateFieldName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("fieldstore: invalid field name %q", name)
	}
	return nil
}

// dirIsEmpty reports whether the directory contains no entries.
func dirIsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// writeNewFile creates (or truncates) a data file and writes the first
// snapshot at offset zero.
func writeNewFile(path string, buf []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	return nil
}

// appendToFile appends a snapshot to a data file and returns the offset
// the snapshot starts at, the end-of-file position before the write.
func appendToFile(path string, buf []byte, perm os.FileMode) (uint64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, perm)
	if err != nil {
		return 0, fmt.Errorf("open data file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("stat data file: %w", err)
	}
	offset := uint64(info.Size())
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return 0, fmt.Errorf("write data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close data file: %w", err)
	}
	return offset, nil
}

// overwriteAt replaces an existing byte-run in place without truncating.
func overwriteAt(path string, buf []byte, offset uint64) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	if _, err := f.WriteAt(buf, int64(offset)); err != nil {
		f.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	return nil
}

// runLength returns the byte length of snapshot id: the distance to the
// next entry's offset, or to the end of the file for the last entry.
func runLength(path string, ot fieldtable.OffsetTable, id int) (uint64, error) {
	if id+1 < len(ot) {
		return ot[id+1].Offset - ot[id].Offset, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat data file: %w", err)
	}
	return uint64(info.Size()) - ot[id].Offset, nil
}
