package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/util/format"
)

func TestFormatBytesBelowKB(t *testing.T) {
	require.Equal(t, "512B", format.FormatBytes(512))
}

func TestFormatBytesWholeUnits(t *testing.T) {
	require.Equal(t, "2KB", format.FormatBytes(2*1024))
	require.Equal(t, "3MB", format.FormatBytes(3*1024*1024))
	require.Equal(t, "1GB", format.FormatBytes(1*1024*1024*1024))
	require.Equal(t, "1TB", format.FormatBytes(1*1024*1024*1024*1024))
}

func TestFormatBytesFractionalUnits(t *testing.T) {
	require.Equal(t, "1.50KB", format.FormatBytes(1536))
}
