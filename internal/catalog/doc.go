// Package catalog persists scan results in a SQLite database so collections
// can be browsed, re-queried, and checked for duplicate content without
// rescanning. A scan run groups the files recorded during one crawl.
package catalog
