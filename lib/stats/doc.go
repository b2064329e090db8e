// Package stats implements the statistics service: scalar counter lookups by
// statistic identifier and full snapshot exports of a statistics source into
// a two-level grouped document.
//
// The service performs four operations:
//   - StatisticValue: single uint64 counter lookup through a scoped cursor
//   - StatisticValueAs: the same lookup narrowed into a smaller integer
//     type, saturating at the target's upper bound
//   - IdentSize: block-size convenience lookup that absorbs the
//     concurrently-dropped-object race by reporting 0
//   - ExportSnapshot: cursor drain into an insertion-ordered document whose
//     sub-documents group statistics by description prefix
//
// All cursors are scoped: opened immediately before use and closed on every
// exit path, including error returns. The service keeps no state across
// calls and performs no synchronization of its own.
package stats
