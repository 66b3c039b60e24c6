// Package crawler walks directory trees and feeds every regular file
// through the metadata scanners with a bounded worker pool. Per-file
// failures are recorded and logged without stopping the walk.
package crawler
