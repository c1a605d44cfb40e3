package duparallel_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/cmd/internal/duparallel"
	"github.com/ostafen/storagefs/internal/jsonfs"
	"github.com/ostafen/storagefs/internal/logger"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

const sizeDoc = `{
	"a": "12345",
	"b": "1234567890",
	"nested": {"c": "123", "d": "12"}
}`

func TestSumWalksNestedTreeSerially(t *testing.T) {
	m, err := jsonfs.Open(memory.New([]byte(sizeDoc)))
	require.NoError(t, err)
	root, err := m.Root()
	require.NoError(t, err)

	total, err := duparallel.Sum(root)
	require.NoError(t, err)
	// Leaves render as their JSON text, quotes included:
	// "12345"(7) + "1234567890"(12) + "123"(5) + "12"(4) = 28
	require.Equal(t, int64(28), total)
}

func TestParallelMatchesSerialSum(t *testing.T) {
	m, err := jsonfs.Open(memory.New([]byte(sizeDoc)))
	require.NoError(t, err)
	root, err := m.Root()
	require.NoError(t, err)

	serial, err := duparallel.Sum(root)
	require.NoError(t, err)

	parallel, err := duparallel.Parallel(context.Background(), root, nil)
	require.NoError(t, err)

	require.Equal(t, serial, parallel)
}

func TestParallelOnLeafReturnsItsOwnSize(t *testing.T) {
	m, err := jsonfs.Open(memory.New([]byte(`"hello"`)))
	require.NoError(t, err)
	root, err := m.Root()
	require.NoError(t, err)

	total, err := duparallel.Parallel(context.Background(), root, logger.New(io.Discard, logger.ErrorLevel))
	require.NoError(t, err)
	// `"hello"` with its quotes is 7 bytes.
	require.Equal(t, int64(7), total)
}
