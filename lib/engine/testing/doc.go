// Package testing provides a standardized conformance suite for
// implementations of the engine.Session contract.
//
//   - RunSessionTests validates the cursor behavior the bridge services rely
//     on: exact seek semantics, deterministic iteration, the nonzero
//     advance-means-done convention, and rejection of use-after-close.
//
// Implementations register their fixtures through a SessionFactory; the
// suite never reaches past the Session interface.
package testing
