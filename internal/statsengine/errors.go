package statsengine

import "errors"

var (
	// ErrConcurrencyConflict is returned when an event could not be
	// applied after exhausting retries on lock and serialization
	// conflicts. The caller may resubmit the event.
	ErrConcurrencyConflict = errors.New("concurrent event processing conflict")

	// ErrConsistencyViolation is returned when the cached XP total
	// disagrees with the ledger sum at commit time. The transaction is
	// rolled back, nothing is persisted.
	ErrConsistencyViolation = errors.New("xp total does not match ledger sum")
)
