//go:build !darwin && !linux

package vault

import (
	"io/fs"
	"time"
)

// createdTime falls back to the modification time.
func createdTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
