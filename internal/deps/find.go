package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FindExecutable searches for an executable in the directories listed in
// searchPath (os.PathListSeparator separated; defaults to $PATH when empty).
// On Windows the candidate names are expanded with the extensions from
// PATHEXT when the given name carries none of them. Absolute and relative
// candidates that already resolve to an executable are honoured first.
func FindExecutable(name, searchPath string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if searchPath == "" {
		searchPath = os.Getenv("PATH")
	}
	dirs := filepath.SplitList(searchPath)

	for _, candidate := range candidateNames(name) {
		if abs, err := filepath.Abs(candidate); err == nil && isExecutable(abs) {
			if strings.ContainsRune(candidate, os.PathSeparator) {
				return abs, true
			}
		}
		for _, dir := range dirs {
			if dir == "" {
				continue
			}
			full := filepath.Join(dir, candidate)
			if abs, err := filepath.Abs(full); err == nil && isExecutable(abs) {
				return abs, true
			}
		}
	}
	return "", false
}

// candidateNames expands a bare executable name with platform extension
// rules. On non-Windows platforms the name is returned unchanged.
func candidateNames(name string) []string {
	if runtime.GOOS != "windows" {
		return []string{name}
	}
	pathext := strings.ToLower(os.Getenv("PATHEXT"))
	if pathext == "" {
		pathext = ".com;.exe;.bat;.cmd"
	}
	extensions := strings.Split(pathext, ";")
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range extensions {
		if ext == strings.TrimSpace(known) && ext != "" {
			return []string{name}
		}
	}
	candidates := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		candidates = append(candidates, name+e)
	}
	return candidates
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
