// Package checksum computes streaming file digests for metadata extraction.
//
// Files are read in fixed-size blocks so arbitrarily large inputs hash with
// bounded memory. The default algorithm is sha256 with 4 MiB blocks; sha1,
// sha512, md5, and xxh64 are also available.
package checksum
