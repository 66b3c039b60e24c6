package config

import "strings"

func (c *Config) normalize() error {
	c.Scan.ChecksumAlgorithm = strings.ToLower(strings.TrimSpace(c.Scan.ChecksumAlgorithm))
	if c.Scan.ChecksumAlgorithm == "" {
		c.Scan.ChecksumAlgorithm = defaultChecksumAlgorithm
	}
	if c.Scan.ChecksumBlockSize <= 0 {
		c.Scan.ChecksumBlockSize = defaultChecksumBlockSize
	}
	c.Scan.FFprobeCommand = strings.TrimSpace(c.Scan.FFprobeCommand)
	if c.Scan.FFprobeCommand == "" {
		c.Scan.FFprobeCommand = defaultFFprobeCommand
	}
	if c.Scan.FFprobeTimeout <= 0 {
		c.Scan.FFprobeTimeout = defaultFFprobeTimeout
	}

	if c.Crawl.Workers <= 0 {
		c.Crawl.Workers = defaultCrawlWorkers
	}
	patterns := make([]string, 0, len(c.Crawl.Exclude))
	for _, pattern := range c.Crawl.Exclude {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	c.Crawl.Exclude = patterns

	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	expanded, err := expandPath(c.Catalog.Path)
	if err != nil {
		return err
	}
	c.Catalog.Path = expanded

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
