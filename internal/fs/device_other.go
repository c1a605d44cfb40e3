//go:build !linux
// +build !linux

package fs

import (
	"fmt"
	"os"
)

var errNoDeviceIoctl = fmt.Errorf("fs: device ioctls unavailable on this platform")

func sectorSizeIoctl(f *os.File) (int64, error) {
	return 0, errNoDeviceIoctl
}

func deviceSizeIoctl(f *os.File) (int64, error) {
	return 0, errNoDeviceIoctl
}
