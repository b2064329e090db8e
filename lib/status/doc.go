// Package status implements the bridge's error taxonomy and the translation
// of raw engine return codes into typed errors.
//
// The taxonomy splits into two families:
//   - NotFound-class codes (CodeNoSuchKey, CodeCursorNotFound,
//     CodeNotFoundInConfig) describe expected absence and are often
//     non-fatal to the caller.
//   - Malformed-class codes (CodeFailedToParse, CodeUnsupportedFormat,
//     CodeDuplicateKey, CodeBadValue) describe contract violations in the
//     input; they are surfaced to the caller and never silently repaired.
//
// CodeUnknownError is the catch-all for unrecognized engine codes and always
// includes the raw numeric code and the engine's description text.
//
// Two escapes bypass the ordinary error channel entirely:
//
//   - WriteConflict: raised (as a panic value) when the engine reports a
//     conflict between concurrent operations. It must be absorbed by a
//     transaction-retry boundary (Retry) and re-run; modeling it outside the
//     error type makes it impossible to accidentally handle as a generic
//     error.
//   - Fatal invariant aborts (Fatalf, Invariant, InvariantOK): unrecoverable
//     engine failures or broken internal assumptions stop execution instead
//     of returning a value.
package status
