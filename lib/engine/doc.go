// Package engine defines the narrow contracts between the kvbridge core and
// a handle-based storage engine. It contains no engine implementation of its
// own; it only fixes the types the rest of the system is written against.
//
// The package focuses on:
//   - Raw return codes with the engine's sentinel values (Code, Strerror)
//   - The Session capability token handed to every bridge operation
//   - Cursor interfaces for the metadata and statistics sources
//   - Well-known statistic identifiers and the StatisticsRow record
//
// Key Components:
//
//   - Code: an opaque integer return code. Zero means success. The negative
//     range carries the engine's sentinels (rollback/conflict, not found,
//     panic), small positive values are errno-style codes. Code values are
//     translated into typed errors by the status package; the engine package
//     itself attaches no policy to them.
//
//   - Session: the per-call capability through which cursors are opened.
//     Sessions are single-threaded by contract - the bridge never dispatches
//     work to other goroutines and never synchronizes a session itself.
//
//   - MetadataCursor / StatisticsCursor: the minimal cursor surfaces the
//     bridge consumes (seek, value access, advance, close). Implementations
//     may back them with anything from an in-memory map to a native engine
//     handle.
//
// Related Packages:
//
// The engine/memwt package provides the in-memory reference implementation of
// Session used by tests and the inspection CLI. The engine/testing package
// provides a conformance suite for third-party Session implementations. The
// status package (github.com/kvbridge/kvbridge/lib/status) translates Code
// values into the typed error taxonomy used by the services.
package engine
