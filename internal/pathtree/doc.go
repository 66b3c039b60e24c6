// Package pathtree implements the ordered nested mapping used as the canonical
// in-memory representation of extracted metadata.
//
// A Tree maps string keys to scalar values or nested subtrees. Insertion order
// is preserved so JSON serialization stays deterministic. Keys can be inserted
// by pre-split path segments or by delimited strings ("Exif.Image.Make"),
// with intermediate nodes created on demand.
//
// Key types and entry points:
//   - Tree: the ordered nested mapping
//   - New / NewStrict: construct trees with the demoting or strict conflict policy
//   - Insert / InsertPath: leaf insertion with automatic intermediate nodes
//   - Flatten: single-level view keyed by delimiter-joined paths
//   - Merge: shallow top-level union used to combine step fragments
//
// This package has no mdeco-specific dependencies and could be extracted as a
// standalone library.
package pathtree
