// Package meta implements the metadata service: it fetches engine-native
// configuration strings through a metadata cursor and converts the embedded
// "app_metadata" struct into a typed, insertion-ordered document.
//
// The service performs three operations:
//   - GetMetadata: raw configuration string lookup by object uri
//   - GetApplicationMetadata: typed document extraction with duplicate-key
//     enforcement and Bool/Num/String coercion
//   - CheckApplicationMetadataFormatVersion: versioned-schema validation
//     with a legacy default of version 1 for pre-versioning metadata
//
// All cursors opened by the service are scoped: acquired immediately before
// use and closed on every exit path. The service keeps no state across calls.
package meta
