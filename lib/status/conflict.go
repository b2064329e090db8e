package status

import "fmt"

// --------------------------------------------------------------------------
// Write Conflict Signal
// --------------------------------------------------------------------------

// WriteConflict is the signal raised when the engine reports a conflict
// between concurrent operations. It is intentionally not an error: it travels
// as a panic value so that it bypasses every ordinary error-handling path and
// can only be absorbed by an explicit transaction-retry boundary (Retry).
type WriteConflict struct{}

func (WriteConflict) String() string {
	return "write conflict, operation must be retried"
}

// IsWriteConflict reports whether a recovered panic value is the write
// conflict signal.
func IsWriteConflict(recovered any) bool {
	_, ok := recovered.(WriteConflict)
	return ok
}

// Retry is the transaction-retry boundary. It runs fn until it completes
// without raising WriteConflict, re-raising every other panic unchanged.
// Errors returned by fn are not retried; a conflict means "run the whole
// operation again", an error means "report to the caller".
func Retry(fn func() error) error {
	for {
		conflict, err := runOnce(fn)
		if !conflict {
			return err
		}
	}
}

func runOnce(fn func() error) (conflict bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if !IsWriteConflict(r) {
				panic(r)
			}
			conflict = true
		}
	}()
	return false, fn()
}

// --------------------------------------------------------------------------
// Invariant System
// --------------------------------------------------------------------------

// Fatalf aborts the process-level invariant system with a formatted message.
// It is reserved for conditions that are programming or environment errors
// and must never occur in normal operation.
func Fatalf(format string, args ...any) {
	panic(fmt.Sprintf("fatal assertion: "+format, args...))
}

// Invariant aborts unless cond holds.
func Invariant(cond bool, msg string) {
	if !cond {
		Fatalf("%s", msg)
	}
}

// InvariantOK aborts if err is non-nil. Used where a failure has no
// meaningful recovery and indicates a broken invariant.
func InvariantOK(err error) {
	if err != nil {
		Fatalf("unexpected error: %v", err)
	}
}
