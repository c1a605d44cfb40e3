package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

type testPOD struct {
	Magic   uint32
	Version uint16
	_       uint16
	Count   uint64
}

func TestWriteObjectReadObjectRoundtrip(t *testing.T) {
	s := memory.NewSize(64)

	in := testPOD{Magic: 0xCAFEBABE, Version: 3, Count: 1 << 40}
	require.NoError(t, storage.WriteObject(s, 8, in))

	out, err := storage.ReadObject[testPOD](s, 8)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestReadExactPartialReadError(t *testing.T) {
	s := memory.NewSize(4)

	buf := make([]byte, 8)
	err := storage.ReadExact(s, 0, buf)
	require.Error(t, err)
	require.True(t, storage.IsPartialRead(err))
}

func TestWriteExactThenReadExact(t *testing.T) {
	s := memory.NewSize(0)

	payload := []byte("the quick brown fox")
	require.NoError(t, storage.WriteExact(s, 5, payload))

	buf := make([]byte, len(payload))
	require.NoError(t, storage.ReadExact(s, 5, buf))
	require.Equal(t, payload, buf)
}

func TestDiscardAll(t *testing.T) {
	s := memory.New([]byte("XXXXXXXXXX"))

	require.NoError(t, storage.DiscardAll(s, 2, 6))
	require.Equal(t, []byte("XX\x00\x00\x00\x00\x00\x00XX"), s.Bytes())
}

func TestDetectSize(t *testing.T) {
	s := memory.NewSize(12345)

	size, err := storage.DetectSize(s)
	require.NoError(t, err)
	require.Equal(t, uint64(12345), size)
}

func TestDetectSizeZero(t *testing.T) {
	s := memory.NewSize(0)

	size, err := storage.DetectSize(s)
	require.NoError(t, err)
	require.Equal(t, uint64(0), size)
}
