package fieldstore

import (
	"errors"
	"iter"
)

// StridedView is a StorageView over a caller-owned byte slice with
// per-dimension strides, the layout produced by multi-dimensional array
// containers. Strides are expressed in bytes and may include padding;
// iteration follows row-major order over the dimensions.
type StridedView struct {
	data    []byte
	bpe     int
	dims    []int
	strides []int
}

// NewStridedView creates a view of data with the given element width,
// dimension extents, and per-dimension byte strides.
func NewStridedView(data []byte, bytesPerElement int, dims, strides []int) (*StridedView, error) {
	if bytesPerElement <= 0 {
		return nil, errors.New("fieldstore: bytes per element must be positive")
	}
	if len(dims) == 0 || len(dims) != len(strides) {
		return nil, errors.New("fieldstore: dims and strides must be non-empty and of equal length")
	}

	// The highest addressed byte must lie inside data.
	last := 0
	for i, d := range dims {
		if d <= 0 {
			return nil, errors.New("fieldstore: dimensions must be positive")
		}
		if strides[i] < 0 {
			return nil, errors.New("fieldstore: strides must be non-negative")
		}
		last += (d - 1) * strides[i]
	}
	if last+bytesPerElement > len(data) {
		return nil, errors.New("fieldstore: view exceeds the underlying slice")
	}

	v := &StridedView{
		data:    data,
		bpe:     bytesPerElement,
		dims:    append([]int(nil), dims...),
		strides: append([]int(nil), strides...),
	}
	return v, nil
}

// NewContiguousView creates a one-dimensional dense view of data. The
// slice length must be a multiple of the element width.
func NewContiguousView(data []byte, bytesPerElement int) (*StridedView, error) {
	if bytesPerElement <= 0 {
		return nil, errors.New("fieldstore: bytes per element must be positive")
	}
	if len(data)%bytesPerElement != 0 {
		return nil, errors.New("fieldstore: slice length is not a multiple of the element width")
	}
	return NewStridedView(data, bytesPerElement, []int{len(data) / bytesPerElement}, []int{bytesPerElement})
}

// SizeInBytes implements StorageView.
func (v *StridedView) SizeInBytes() int {
	n := v.bpe
	for _, d := range v.dims {
		n *= d
	}
	return n
}

// BytesPerElement implements StorageView.
func (v *StridedView) BytesPerElement() int {
	return v.bpe
}

// Elements implements StorageView. The odometer walks the dimensions in
// row-major order, yielding a handle per element.
func (v *StridedView) Elements() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		idx := make([]int, len(v.dims))
		for {
			off := 0
			for i, strideIdx := range idx {
				off += strideIdx * v.strides[i]
			}
			if !yield(v.data[off : off+v.bpe : off+v.bpe]) {
				return
			}

			// Advance, last dimension fastest.
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < v.dims[i] {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}
