// Package memwt provides the in-memory reference implementation of the
// engine.Session contract. It exists so that the bridge services, the
// conformance suite and the inspection CLI can run without a native storage
// engine; it makes no durability or performance claims.
//
// Key Components:
//
//   - Engine: a registry of tables keyed by object uri. Each table carries
//     the object's engine-native configuration string (served through the
//     metadata cursor) and a list of statistics rows (served through the
//     statistics cursor in insertion order). The registry uses a concurrent
//     map so fixtures can be set up from test helpers freely; cursors remain
//     single-threaded per the session contract.
//
//   - Fixture API: Create, Drop and SetStatistics populate the engine.
//     Configuration strings are validated against the wtconfig grammar at
//     Create time, so a malformed fixture fails loudly with CodeInvalidArg
//     instead of poisoning later metadata parses.
//
//   - Snapshot persistence: Save and Load serialize the whole registry to a
//     small binary format (magic number, format version, length-prefixed
//     strings). This is the fixture transport used by the CLI's seed and
//     inspect commands; the bridge core itself has no persisted state.
//
// Cursor semantics match the engine convention the core is written against:
// cursors start positioned before the first row, Seek positions them
// exactly, any nonzero Next code means no further row, and every operation
// on a closed cursor reports CodeInvalidArg.
package memwt
