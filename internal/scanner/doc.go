// Package scanner implements the pluggable metadata collectors and the
// dispatch service that routes files to them by MIME type.
//
// A Collector turns one file path into a partial metadata tree. Each
// collector declares the MIME glob patterns it handles, verifies its
// external prerequisites once via CheckReadiness, and runs a fixed, ordered
// list of extraction steps whose fragments merge into the scan result.
// Collectors are flat variants composed by the Service; there is no
// inheritance between them.
//
// Lifecycle: constructed -> CheckReadiness -> {ready, failed}. A failed
// check is not terminal; it may be repeated after the missing dependency is
// installed. Scanning before a successful check fails with ErrNotReady and
// never touches the filesystem.
//
// The Service owns dispatch: it guesses the file's MIME type, selects every
// collector whose patterns match (the catch-all file-info collector always
// runs first), and merges the per-collector trees into one result.
package scanner
