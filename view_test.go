package fieldstore

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContiguousViewIteration(t *testing.T) {
	t.Parallel()

	data := seqBytes(0, 12)
	v, err := NewContiguousView(data, 4)
	require.NoError(t, err)

	assert.Equal(t, 12, v.SizeInBytes())
	assert.Equal(t, 4, v.BytesPerElement())

	var got []byte
	for elem := range v.Elements() {
		require.Len(t, elem, 4)
		got = append(got, elem...)
	}
	assert.Equal(t, data, got)
}

func TestContiguousViewRejectsRaggedSlice(t *testing.T) {
	t.Parallel()

	_, err := NewContiguousView(seqBytes(0, 10), 4)
	assert.Error(t, err)

	_, err = NewContiguousView(seqBytes(0, 10), 0)
	assert.Error(t, err)
}

func TestStridedViewWithPadding(t *testing.T) {
	t.Parallel()

	// 2x2 elements of 2 bytes with one padding element per row.
	backing := []byte{
		1, 1, 2, 2, 0xff, 0xff,
		3, 3, 4, 4, 0xff, 0xff,
	}
	v, err := NewStridedView(backing, 2, []int{2, 2}, []int{6, 2})
	require.NoError(t, err)

	assert.Equal(t, 8, v.SizeInBytes())

	packed, err := packView(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1, 2, 2, 3, 3, 4, 4}, packed)
}

func TestStridedViewElementHandlesAlias(t *testing.T) {
	t.Parallel()

	backing := make([]byte, 8)
	v, err := NewContiguousView(backing, 2)
	require.NoError(t, err)

	require.NoError(t, unpackView(v, []byte{9, 8, 7, 6, 5, 4, 3, 2}))
	assert.Equal(t, []byte{9, 8, 7, 6, 5, 4, 3, 2}, backing)
}

func TestStridedViewValidation(t *testing.T) {
	t.Parallel()

	data := make([]byte, 16)

	_, err := NewStridedView(data, 4, []int{2, 2}, []int{8})
	assert.Error(t, err, "dims/strides length mismatch")

	_, err = NewStridedView(data, 4, nil, nil)
	assert.Error(t, err, "empty dims")

	_, err = NewStridedView(data, 4, []int{0}, []int{4})
	assert.Error(t, err, "zero extent")

	_, err = NewStridedView(data, 4, []int{5}, []int{4})
	assert.Error(t, err, "view exceeds slice")

	_, err = NewStridedView(data, 4, []int{2}, []int{-4})
	assert.Error(t, err, "negative stride")

	_, err = NewStridedView(data, 4, []int{4}, []int{4})
	assert.NoError(t, err)
}

func TestStridedViewEarlyBreak(t *testing.T) {
	t.Parallel()

	v, err := NewContiguousView(seqBytes(0, 8), 1)
	require.NoError(t, err)

	count := 0
	for range v.Elements() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

// shortView misreports its size to exercise the bridge's element count check.
type shortView struct {
	inner StorageView
	size  int
}

func (s *shortView) SizeInBytes() int           { return s.size }
func (s *shortView) BytesPerElement() int       { return s.inner.BytesPerElement() }
func (s *shortView) Elements() iter.Seq[[]byte] { return s.inner.Elements() }

func TestPackViewRejectsInconsistentView(t *testing.T) {
	t.Parallel()

	inner, err := NewContiguousView(seqBytes(0, 8), 2)
	require.NoError(t, err)

	_, err = packView(&shortView{inner: inner, size: 10})
	assert.Error(t, err, "view yields fewer bytes than claimed")

	_, err = packView(&shortView{inner: inner, size: 6})
	assert.Error(t, err, "view yields more bytes than claimed")
}

func TestUnpackViewLengthCheck(t *testing.T) {
	t.Parallel()

	v, err := NewContiguousView(make([]byte, 8), 2)
	require.NoError(t, err)

	assert.Error(t, unpackView(v, make([]byte, 6)))
	assert.NoError(t, unpackView(v, make([]byte, 8)))
}
