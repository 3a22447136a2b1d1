package fieldstore

import (
	"fmt"
	"iter"
)

// StorageView exposes a field's in-memory layout for byte-level iteration.
//
// Elements yields one handle per element, a slice of exactly
// BytesPerElement bytes aliasing the element's storage, in the view's
// canonical layout order. The iteration order must be stable between the
// write and read of the same logical field shape; the archive makes no
// other assumption about the view's internal strides.
type StorageView interface {
	// SizeInBytes returns the total payload size of the field.
	SizeInBytes() int

	// BytesPerElement returns the element width, constant across the view.
	BytesPerElement() int

	// Elements iterates the element handles in canonical layout order.
	// The element count times BytesPerElement equals SizeInBytes.
	Elements() iter.Seq[[]byte]
}

// packView copies the view's elements into a contiguous buffer of length
// view.SizeInBytes(), in iteration order.
func packView(view StorageView) ([]byte, error) {
	n := view.SizeInBytes()
	bpe := view.BytesPerElement()
	buf := make([]byte, n)

	cursor := 0
	for elem := range view.Elements() {
		if len(elem) != bpe {
			return nil, fmt.Errorf("fieldstore: element handle has %d bytes, want %d", len(elem), bpe)
		}
		if cursor+bpe > n {
			return nil, fmt.Errorf("fieldstore: storage view yields more than %d bytes", n)
		}
		copy(buf[cursor:cursor+bpe], elem)
		cursor += bpe
	}
	if cursor != n {
		return nil, fmt.Errorf("fieldstore: storage view yielded %d bytes, want %d", cursor, n)
	}
	return buf, nil
}

// unpackView copies a contiguous buffer back into the view's elements, in
// iteration order. The buffer length must equal view.SizeInBytes().
func unpackView(view StorageView, buf []byte) error {
	n := view.SizeInBytes()
	bpe := view.BytesPerElement()
	if len(buf) != n {
		return fmt.Errorf("fieldstore: buffer has %d bytes, want %d", len(buf), n)
	}

	cursor := 0
	for elem := range view.Elements() {
		if len(elem) != bpe {
			return fmt.Errorf("fieldstore: element handle has %d bytes, want %d", len(elem), bpe)
		}
		if cursor+bpe > n {
			return fmt.Errorf("fieldstore: storage view yields more than %d bytes", n)
		}
		copy(elem, buf[cursor:cursor+bpe])
		cursor += bpe
	}
	if cursor != n {
		return fmt.Errorf("fieldstore: storage view yielded %d bytes, want %d", cursor, n)
	}
	return nil
}
