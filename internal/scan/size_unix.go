//go:build unix

package scan

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// diskUsage returns the bytes allocated on disk for path, counted in the
// 512-byte blocks st_blocks reports regardless of the filesystem block size.
func diskUsage(path string, info fs.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return info.Size()
	}
	return int64(st.Blocks) * 512
}
