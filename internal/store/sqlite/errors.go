package sqlite

import (
	"fmt"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
)

// errStoreOpen marks failures that occur opening or migrating the
// database, distinct from the per-call failures wrapStoreFailure builds, so callers can tell
// "couldn't even start" from "a single operation failed".
var errStoreOpen = fmt.Errorf("%w: open", domain.ErrStoreFailure)

// wrapStoreFailure annotates err as a store failure: the store's one
// fatal failure mode besides the documented duplicate-id and not-found
// cases.
func wrapStoreFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreFailure, op, err)
}
