//go:build unix

package fileutil

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the closest thing unix filesystems expose to a
// creation time: the inode change time. Falls back to the modification time
// when the stat call fails.
func creationTime(path string, info fs.FileInfo) time.Time {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return info.ModTime()
	}
	sec, nsec := stat.Ctim.Unix()
	return time.Unix(sec, nsec)
}
