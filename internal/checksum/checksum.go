package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultAlgorithm is used when no algorithm is configured.
	DefaultAlgorithm = "sha256"
	// DefaultBlockSize bounds memory while hashing large files (4 MiB).
	DefaultBlockSize = 4 * 1024 * 1024
)

// ErrUnsupportedAlgorithm indicates an unknown checksum algorithm name.
var ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")

var constructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"xxh64":  func() hash.Hash { return xxhash.New() },
}

// Algorithms returns the supported algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether the named algorithm is available.
func Supported(algorithm string) bool {
	_, ok := constructors[normalize(algorithm)]
	return ok
}

// SumFile computes the hex digest of the file at path. blockSize values less
// than one fall back to DefaultBlockSize.
func SumFile(path, algorithm string, blockSize int) (string, error) {
	hasher, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}
	if blockSize < 1 {
		blockSize = DefaultBlockSize
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close()

	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SumBytes computes the hex digest of an in-memory block.
func SumBytes(data []byte, algorithm string) (string, error) {
	hasher, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func newHasher(algorithm string) (hash.Hash, error) {
	constructor, ok := constructors[normalize(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)",
			ErrUnsupportedAlgorithm, algorithm, strings.Join(Algorithms(), ", "))
	}
	return constructor(), nil
}

func normalize(algorithm string) string {
	return strings.ToLower(strings.TrimSpace(algorithm))
}
