package config

import (
	"fmt"
	"strings"

	"mdeco/internal/checksum"
)

var (
	validLogFormats = map[string]bool{"console": true, "json": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	var problems []string

	if !checksum.Supported(c.Scan.ChecksumAlgorithm) {
		problems = append(problems, fmt.Sprintf(
			"scan.checksum_algorithm: unsupported value %q (valid: %s)",
			c.Scan.ChecksumAlgorithm, strings.Join(checksum.Algorithms(), ", ")))
	}
	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
