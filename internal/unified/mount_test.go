package unified_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/internal/fat/mkfs"
	"github.com/ostafen/storagefs/internal/unified"
	"github.com/ostafen/storagefs/pkg/storage"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func TestMountAnyRecognizesFATImage(t *testing.T) {
	plan, err := mkfs.ComputePlan(mkfs.Params{TotalSize: 32 * 1024 * 1024})
	require.NoError(t, err)

	s := memory.NewSize(int(plan.TotalSize))
	require.NoError(t, mkfs.Write(s, plan))

	m, err := unified.MountAny(s)
	require.NoError(t, err)
	require.Equal(t, unified.KindFAT, m.Kind)
	require.Equal(t, storage.FTDirectory, m.Root.Type())
}

func TestMountAnyRecognizesJSONDocument(t *testing.T) {
	s := memory.New([]byte(`{"a": 1}`))

	m, err := unified.MountAny(s)
	require.NoError(t, err)
	require.Equal(t, unified.KindJSON, m.Kind)
}

func TestMountAnyRejectsUnrecognizedData(t *testing.T) {
	s := memory.New([]byte{0x01, 0x02, 0x03, 0x04})

	_, err := unified.MountAny(s)
	require.Error(t, err)
	require.True(t, storage.IsInvalidFormat(err))
}

func TestMountAnyKindStringers(t *testing.T) {
	require.Equal(t, "ext4", unified.KindExt4.String())
	require.Equal(t, "json", unified.KindJSON.String())
	require.Equal(t, "fat", unified.KindFAT.String())
	require.Equal(t, "mbr", unified.KindMBR.String())
	require.Equal(t, "unknown", unified.KindUnknown.String())
}
