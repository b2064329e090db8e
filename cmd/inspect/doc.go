// Package inspect implements the `kvbridge inspect` command group.
//
// Every subcommand restores an in-memory engine from a snapshot file
// (--file or KVB_FILE) and runs one bridge operation against it:
//
//   - meta     prints an object's raw metadata string
//   - appmeta  prints an object's application metadata as JSON
//   - check    validates an object's metadata format version
//   - stat     prints one statistic value by identifier
//   - export   prints a grouped statistics snapshot as JSON
//   - perf     measures statistic lookup latency
package inspect
