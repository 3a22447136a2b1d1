package fieldstore

// OpenMode selects the archive access mode.
type OpenMode uint8

const (
	// ModeRead opens an existing archive for verified read-back.
	ModeRead OpenMode = iota

	// ModeWrite starts a fresh archive; the directory must be empty or absent.
	ModeWrite

	// ModeAppend extends an existing archive, creating it if absent.
	ModeAppend
)

func (m OpenMode) String() string {
	switch m {
	case ModeRead:
		return "Read"
	case ModeWrite:
		return "Write"
	case ModeAppend:
		return "Append"
	default:
		return "Unknown"
	}
}

// FieldID identifies a single snapshot: Name selects the field and ID the
// position within the field's snapshot sequence, counting from zero in
// write order.
type FieldID struct {
	Name string
	ID   int
}
