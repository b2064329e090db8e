package engine

import "fmt"

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

// Code is a raw engine return code. Zero means success, the negative range
// holds the engine's own sentinels and small positive values are errno-style
// codes surfaced by the engine's OS layer.
type Code int

const (
	// CodeOK signals a successful operation.
	CodeOK Code = 0

	// CodeRollback signals a conflict between concurrent operations. The
	// operation that receives this code must be retried by the caller's
	// transaction boundary.
	CodeRollback Code = -31800

	// CodeDuplicateKey signals an attempt to insert a record under an
	// already existing key.
	CodeDuplicateKey Code = -31801

	// CodeError is the engine's non-specific error code.
	CodeError Code = -31802

	// CodeNotFound signals that a searched-for record was not found.
	CodeNotFound Code = -31803

	// CodePanic signals an unrecoverable engine failure (e.g. on-disk
	// corruption). No further engine calls may be made after this code.
	CodePanic Code = -31804

	// CodeNoEnt signals that an object addressed by uri does not exist
	// (errno ENOENT).
	CodeNoEnt Code = 2

	// CodeInvalidArg signals an invalid argument, such as a malformed
	// cursor configuration string (errno EINVAL).
	CodeInvalidArg Code = 22
)

// Strerror returns the engine's human-readable description for a return code.
func Strerror(code Code) string {
	switch code {
	case CodeOK:
		return "successful call"
	case CodeRollback:
		return "conflict between concurrent operations"
	case CodeDuplicateKey:
		return "attempt to insert an existing key"
	case CodeError:
		return "non-specific error"
	case CodeNotFound:
		return "item not found"
	case CodePanic:
		return "database panic, fatal error"
	case CodeNoEnt:
		return "no such file or directory"
	case CodeInvalidArg:
		return "invalid argument"
	default:
		return fmt.Sprintf("unknown error code %d", int(code))
	}
}

// --------------------------------------------------------------------------
// Well-Known Statistic Identifiers
// --------------------------------------------------------------------------

// Statistic identifiers served by the per-object statistics source. The
// numeric values are part of the engine's stable API.
const (
	// StatBlockSize is the total size in bytes of the blocks allocated for
	// an object. Used to estimate the on-disk footprint of a table.
	StatBlockSize int32 = 2001

	// StatBlockAlloc is the number of block allocations for an object.
	StatBlockAlloc int32 = 2002

	// StatEntryCount is the number of live entries in an object.
	StatEntryCount int32 = 2003
)

// --------------------------------------------------------------------------
// Statistics Row Type
// --------------------------------------------------------------------------

// StatisticsRow is one record from a statistics cursor.
type StatisticsRow struct {
	Description string // Human-readable description, e.g. "cache: pages read"
	ID          int32  // Stable statistic identifier
	Value       uint64 // Current counter value
}

func (r StatisticsRow) String() string {
	return fmt.Sprintf("StatisticsRow{ID: %d, Description: %q, Value: %d}", r.ID, r.Description, r.Value)
}

// --------------------------------------------------------------------------
// Session and Cursor Interfaces
// --------------------------------------------------------------------------

// Session is the capability token through which the bridge reaches the
// engine. A session must not be used concurrently from multiple goroutines;
// callers own its lifecycle and any blocking happens inside the engine.
type Session interface {

	// OpenMetadataCursor opens a cursor over the engine's metadata source,
	// which maps object uris to their native configuration strings.
	OpenMetadataCursor() (MetadataCursor, Code)

	// OpenStatisticsCursor opens a cursor over the statistics source
	// addressed by uri (e.g. "statistics:table:users"). The config string
	// uses the engine's configuration grammar, e.g. "statistics=(fast)".
	OpenStatisticsCursor(uri string, config string) (StatisticsCursor, Code)
}

// MetadataCursor iterates the metadata source. Rows are keyed by object uri
// and hold the object's engine-native configuration string.
type MetadataCursor interface {

	// Seek positions the cursor at the row with the given uri.
	// Returns CodeNotFound if no such row exists.
	Seek(uri string) Code

	// Value returns the configuration string of the current row.
	Value() (string, Code)

	// Next advances to the next row. Any nonzero code means the cursor
	// produced no further row.
	Next() Code

	// Close releases the cursor. A cursor must not be used after Close.
	Close() Code
}

// StatisticsCursor iterates a statistics source.
type StatisticsCursor interface {

	// Seek positions the cursor at the statistic with the given identifier.
	// Returns CodeNotFound if the source does not serve that statistic.
	Seek(id int32) Code

	// Row returns the current statistics row.
	Row() (StatisticsRow, Code)

	// Next advances to the next row. Any nonzero code means the cursor
	// produced no further row.
	Next() Code

	// Close releases the cursor. A cursor must not be used after Close.
	Close() Code
}
