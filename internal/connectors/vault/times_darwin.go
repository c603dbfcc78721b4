//go:build darwin

package vault

import (
	"io/fs"
	"syscall"
	"time"
)

// createdTime returns the file birth time.
func createdTime(info fs.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st.Birthtimespec.Sec == 0 {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
