package config

const (
	defaultChecksumAlgorithm = "sha256"
	defaultChecksumBlockSize = 4 * 1024 * 1024
	defaultFFprobeCommand    = "ffprobe"
	defaultFFprobeTimeout    = 30
	defaultCrawlWorkers      = 4
	defaultCatalogPath       = "~/.local/share/mdeco/catalog.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			ChecksumAlgorithm: defaultChecksumAlgorithm,
			ChecksumBlockSize: defaultChecksumBlockSize,
			TimestampsLocal:   true,
			FFprobeCommand:    defaultFFprobeCommand,
			FFprobeTimeout:    defaultFFprobeTimeout,
		},
		Crawl: Crawl{
			Workers: defaultCrawlWorkers,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
