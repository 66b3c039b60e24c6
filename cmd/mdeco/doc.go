// Command mdeco extracts file metadata: scan individual files, crawl
// directory trees, and keep results in a local SQLite catalog.
package main
