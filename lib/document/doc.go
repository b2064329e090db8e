// Package document provides the insertion-ordered document type the bridge
// produces: metadata documents (scalar fields parsed from a configuration
// string) and statistics snapshots (numeric fields grouped into nested
// sub-documents).
//
// Document preserves insertion order for iteration and JSON output. The
// Builder type is the append-only construction surface handed to the meta
// and stats services; it performs no key-uniqueness enforcement of its own,
// since uniqueness is a per-producer policy (duplicate metadata keys are a
// parse error, repeated statistics keys are last-write-wins).
package document
