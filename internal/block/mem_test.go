package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore_FreshStoreHasNoBlocks(t *testing.T) {
	s := NewMemStore(8)

	_, ok, err := s.Read(0)
	require.NoError(t, err)
	require.False(t, ok)
	require.EqualValues(t, 0, s.Blocks())
}

func TestMemStore_AppendReadRoundTrip(t *testing.T) {
	s := NewMemStore(4)

	index, err := s.Append([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.EqualValues(t, 0, index)

	data, ok, err := s.Read(index)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestMemStore_WriteOverwritesInPlace(t *testing.T) {
	s := NewMemStore(4)
	index, err := s.Append([]byte{0, 0, 0, 0})
	require.NoError(t, err)

	require.NoError(t, s.Write([]byte{9, 9, 9, 9}, index))

	data, ok, err := s.Read(index)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte{9, 9, 9, 9}, data)
}

func TestMemStore_ReadPastEndReturnsNotOK(t *testing.T) {
	s := NewMemStore(4)

	_, ok, err := s.Read(42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemStore_WritePastEndIsError(t *testing.T) {
	s := NewMemStore(4)

	err := s.Write([]byte{1, 2, 3, 4}, 42)
	require.ErrorIs(t, err, ErrNoSuchBlock)
}

func TestMemStore_WrongSizeBufferIsError(t *testing.T) {
	s := NewMemStore(4)

	_, err := s.Append([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrBlockSize)

	err = s.Write([]byte{1, 2, 3}, 0)
	require.ErrorIs(t, err, ErrBlockSize)
}
