package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan contains configuration for metadata collectors.
type Scan struct {
	// ChecksumAlgorithm selects the content hash: sha256, sha1, sha512, md5, xxh64.
	ChecksumAlgorithm string `toml:"checksum_algorithm"`
	// ChecksumBlockSize is the read block size in bytes while hashing.
	ChecksumBlockSize int `toml:"checksum_block_size"`
	// TimestampsLocal renders file timestamps in local time instead of UTC.
	TimestampsLocal bool `toml:"timestamps_local"`
	// StrictTreePaths rejects metadata key collisions instead of demoting
	// the colliding scalar into a subtree key.
	StrictTreePaths bool `toml:"strict_tree_paths"`
	// RequireAll turns a failed collector readiness check into a startup
	// error instead of excluding the collector from dispatch.
	RequireAll bool `toml:"require_all"`
	// CombinedProbe replaces the separate audio and video collectors with a
	// single collector that classifies the field from the probe result.
	CombinedProbe bool `toml:"combined_probe"`
	// FFprobeCommand is the probe binary resolved on PATH.
	FFprobeCommand string `toml:"ffprobe_command"`
	// FFprobeTimeout bounds a single probe invocation, in seconds.
	FFprobeTimeout int `toml:"ffprobe_timeout"`
	// FractionsAsFloat renders EXIF rationals as floats instead of "n/d".
	FractionsAsFloat bool `toml:"fractions_as_float"`
}

// Crawl contains configuration for directory walks.
type Crawl struct {
	// Workers is the number of files scanned concurrently.
	Workers int `toml:"workers"`
	// Exclude lists glob patterns for files and directories to skip.
	Exclude []string `toml:"exclude"`
}

// Catalog contains configuration for the SQLite metadata catalog.
type Catalog struct {
	Path string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mdeco.
type Config struct {
	Scan    Scan    `toml:"scan"`
	Crawl   Crawl   `toml:"crawl"`
	Catalog Catalog `toml:"catalog"`
	Logging Logging `toml:"logging"`
}

// SampleConfig returns the annotated sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mdeco/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second result is
// the resolved path, the third whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("mdeco.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ExpandPath resolves a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Abs(path)
}
