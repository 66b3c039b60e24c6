// Package fileutil provides small filesystem helpers: regular-file checks,
// sizes, and OS timestamps formatted for metadata output.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// TimestampFormat renders timestamps for metadata output.
const TimestampFormat = "2006-01-02 15:04:05"

// ErrNotRegularFile indicates a path that exists but is not a regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// TimestampMode selects which file timestamp to read.
type TimestampMode string

const (
	// ModeModified reads the last-modification time.
	ModeModified TimestampMode = "modified"
	// ModeCreated reads the creation time where the platform records one;
	// on most unix filesystems this is the inode change time.
	ModeCreated TimestampMode = "created"
)

// IsRegularFile reports whether path refers to an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// StatRegular stats path and verifies it is a regular file. Missing paths
// surface fs.ErrNotExist; non-files surface ErrNotRegularFile.
func StatRegular(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	return info, nil
}

// FileSize returns the size of the file at path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Timestamp returns the requested file timestamp. When local is false the
// time is returned in UTC.
func Timestamp(path string, mode TimestampMode, local bool) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}

	var ts time.Time
	switch mode {
	case ModeModified:
		ts = info.ModTime()
	case ModeCreated:
		ts = creationTime(path, info)
	default:
		return time.Time{}, fmt.Errorf("unknown timestamp mode %q (valid: %q, %q)", mode, ModeModified, ModeCreated)
	}

	if local {
		return ts.Local(), nil
	}
	return ts.UTC(), nil
}

// FormatTimestamp renders a timestamp with TimestampFormat.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(TimestampFormat)
}
