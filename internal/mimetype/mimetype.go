// Package mimetype guesses a file's MIME type from its extension and content.
//
// Extension lookups run first because they give the most specific answer
// (video/x-matroska rather than application/octet-stream); content sniffing
// of the leading bytes is the fallback. Guess returns an empty string when
// the type cannot be determined so callers can apply their own sentinel.
package mimetype

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// sniffLen matches the number of bytes http.DetectContentType considers.
const sniffLen = 512

// extensionTypes maps lowercase extensions to MIME types the stdlib table
// misses or resolves inconsistently across platforms.
var extensionTypes = map[string]string{
	".avi":  "video/x-msvideo",
	".bmp":  "image/bmp",
	".css":  "text/css",
	".csv":  "text/csv",
	".flac": "audio/flac",
	".gif":  "image/gif",
	".htm":  "text/html",
	".html": "text/html",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".json": "application/json",
	".m4a":  "audio/mp4",
	".m4v":  "video/mp4",
	".md":   "text/markdown",
	".mka":  "audio/x-matroska",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".ogv":  "video/ogg",
	".opus": "audio/ogg",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".txt":  "text/plain",
	".wav":  "audio/x-wav",
	".webm": "video/webm",
	".webp": "image/webp",
	".xml":  "application/xml",
}

// Guess determines the MIME type of the file at path. It returns an empty
// string when the type is undetermined, and an error only when the file
// cannot be read for sniffing.
func Guess(path string) (string, error) {
	if mt := ByExtension(path); mt != "" {
		return mt, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return bySniff(buf[:n]), nil
}

// ByExtension resolves the MIME type from the file extension alone. Returns
// an empty string for unknown extensions.
func ByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	return ""
}

func bySniff(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	detected := http.DetectContentType(data)
	// Strip parameters such as "; charset=utf-8".
	if idx := strings.IndexByte(detected, ';'); idx >= 0 {
		detected = strings.TrimSpace(detected[:idx])
	}
	if detected == "application/octet-stream" {
		return ""
	}
	return detected
}
