// Package wtconfig implements the engine's self-describing configuration
// grammar: a comma-separated list of key[=value] pairs whose values may be
// booleans, 64-bit integers, quoted or bare strings, or nested structs in
// parentheses or brackets.
//
// The parser is a small token scanner over an immutable string slice. It
// produces typed Item tokens by value and keeps no mutable global state;
// parsing a struct found while parsing another struct uses an independent
// Parser instance over the struct's substring (NewStructParser), never a
// shared cursor.
//
// Two access modes are supported:
//   - Get(key): random-access point lookup. Absence is reported as
//     NotFoundInConfig so that callers can fall back to a default without
//     treating the lookup as failed.
//   - Next(): ordered forward iteration. Exhaustion is a sentinel
//     (ok=false, err=nil), distinct from a malformed-grammar error.
//
// Type coercion is left to consumers: Bool items carry their truth value,
// Num items the widest safe integer, everything else the verbatim source
// substring. Struct items carry the enclosed substring, not a parsed
// document - parsing is lazy and only happens on explicit recursion.
package wtconfig
