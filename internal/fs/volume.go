package fs

import (
	"runtime"
	"strings"
	"unicode"
)

// NormalizeVolumePath rewrites a drive-letter path ("C:", "D:\") into a
// raw volume path ("\\.\C:") on Windows, so callers can accept the same
// spelling a user types at a shell prompt; it is a no-op everywhere else.
func NormalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}

	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", `\`)
	upper := strings.ToUpper(path)

	if strings.HasPrefix(upper, `\\.\`) {
		return upper
	}
	if len(upper) >= 2 && upper[1] == ':' && unicode.IsLetter(rune(upper[0])) {
		return `\\.\` + strings.ToUpper(string(upper[0])) + `:`
	}
	return path
}
