//go:build windows

package fileutil

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime returns the NTFS creation time recorded in the file
// attributes, falling back to the modification time.
func creationTime(_ string, info fs.FileInfo) time.Time {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, data.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
