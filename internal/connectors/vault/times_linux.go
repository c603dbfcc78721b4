//go:build linux

package vault

import (
	"io/fs"
	"syscall"
	"time"
)

// createdTime returns the inode change time, the closest Linux has to a
// creation time without statx.
func createdTime(info fs.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Ctim.Unix())
}
