package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func TestSliceReadWriteRoundtrip(t *testing.T) {
	s := memory.NewSize(16)

	n, err := s.WriteBytes(4, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 5)
	n, err = s.ReadBytes(4, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("hello"), buf)
}

func TestSliceWriteGrows(t *testing.T) {
	s := memory.New(nil)

	n, err := s.WriteBytes(10, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, s.Bytes(), 13)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 'a', 'b', 'c'}, s.Bytes())
}

func TestSliceReadPastEndReturnsZero(t *testing.T) {
	s := memory.NewSize(4)

	n, err := s.ReadBytes(4, make([]byte, 1))
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = s.ReadBytes(100, make([]byte, 1))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestSliceDiscardZeroesAndGrows(t *testing.T) {
	s := memory.New([]byte("aaaaaaaaaa"))

	d, err := s.Discard(2, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), d)
	require.Equal(t, []byte("aa\x00\x00\x00\x00aaaa"), s.Bytes())

	d, err = s.Discard(8, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), d)
	require.Len(t, s.Bytes(), 12)
}
