package fieldstore

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/meigma/fieldstore/internal/fieldtable"
)

// ManifestFileName is the fixed name of the archive manifest inside the
// archive directory.
const ManifestFileName = "ArchiveMetaData.json"

// manifestEntry serializes a FileOffset as the 2-element array
// [offset, "checksum"] used by the fields_table schema.
type manifestEntry fieldtable.FileOffset

func (e manifestEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Offset, e.Checksum})
}

// encodeManifest renders the manifest document: version tags plus the
// fields table, pretty-printed with 4-space indentation. Key order is
// deterministic (encoding/json sorts map keys).
func encodeManifest(table *fieldtable.Table) ([]byte, error) {
	fields := make(map[string][]manifestEntry, table.Len())
	for _, name := range table.Names() {
		ot, _ := table.Lookup(name)
		entries := make([]manifestEntry, len(ot))
		for i, fo := range ot {
			entries[i] = manifestEntry(fo)
		}
		fields[name] = entries
	}

	doc := map[string]any{
		"serialbox_version":      versionTag,
		"binary_archive_version": archiveVersion,
		"fields_table":           fields,
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// decodeManifest parses a manifest document, enforcing the version gate,
// and rebuilds the field table. Offsets are decoded through json.Number
// so 64-bit values survive exactly.
func decodeManifest(data []byte) (*fieldtable.Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestFormat, err)
	}

	serialboxVersion, err := manifestInt(doc, "serialbox_version")
	if err != nil {
		return nil, err
	}
	binaryArchiveVersion, err := manifestInt(doc, "binary_archive_version")
	if err != nil {
		return nil, err
	}
	if serialboxVersion != versionTag {
		return nil, fmt.Errorf("%w: manifest serialbox_version %d, library %d",
			ErrVersionMismatch, serialboxVersion, versionTag)
	}
	if binaryArchiveVersion != archiveVersion {
		return nil, fmt.Errorf("%w: manifest binary_archive_version %d, format %d",
			ErrVersionMismatch, binaryArchiveVersion, archiveVersion)
	}

	rawFields, ok := doc["fields_table"]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrManifestFormat, "fields_table")
	}
	var fields map[string][]json.RawMessage
	if err := json.Unmarshal(rawFields, &fields); err != nil {
		return nil, fmt.Errorf("%w: fields_table is not an object of arrays", ErrManifestFormat)
	}

	table := fieldtable.New()
	for name, entries := range fields {
		for id, raw := range entries {
			fo, err := decodeEntry(raw)
			if err != nil {
				return nil, fmt.Errorf("%w (field %q, id %d)", err, name, id)
			}
			table.Append(name, fo)
		}
	}
	return table, nil
}

// manifestInt extracts a required integer key from the document.
func manifestInt(doc map[string]json.RawMessage, key string) (int64, error) {
	raw, ok := doc[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing key %q", ErrManifestFormat, key)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("%w: key %q is not a number", ErrManifestFormat, key)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: key %q is not an integer", ErrManifestFormat, key)
	}
	return v, nil
}

// decodeEntry parses one [offset, checksum] pair.
func decodeEntry(raw json.RawMessage) (fieldtable.FileOffset, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return fieldtable.FileOffset{}, fmt.Errorf("%w: entry is not a 2-element array", ErrManifestFormat)
	}

	var num json.Number
	if err := json.Unmarshal(pair[0], &num); err != nil {
		return fieldtable.FileOffset{}, fmt.Errorf("%w: offset is not a number", ErrManifestFormat)
	}
	offset, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return fieldtable.FileOffset{}, fmt.Errorf("%w: offset is not a 64-bit unsigned integer", ErrManifestFormat)
	}

	var checksum string
	if err := json.Unmarshal(pair[1], &checksum); err != nil {
		return fieldtable.FileOffset{}, fmt.Errorf("%w: checksum is not a string", ErrManifestFormat)
	}

	return fieldtable.FileOffset{Offset: offset, Checksum: checksum}, nil
}
